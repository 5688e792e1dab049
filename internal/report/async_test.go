package report_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/randomizedcoder/jitter/internal/report"
)

// lockedBuffer lets the test read what the drainer goroutine wrote.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAsync_FlushOnClose(t *testing.T) {
	var out lockedBuffer
	a, err := report.NewAsync(&out)
	if err != nil {
		t.Fatalf("NewAsync() error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	var want strings.Builder
	a.Header()
	want.WriteString(report.Header)
	for i := uint64(1); i <= 100; i++ {
		a.Line(sampleLine(i))
		want.WriteString(report.Format(sampleLine(i)))
	}
	a.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after Close()")
	}

	if out.String() != want.String() {
		t.Errorf("async output differs from inline output:\n%s", out.String())
	}
	if a.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0", a.Dropped())
	}
}

func TestAsync_DrainsWhileRunning(t *testing.T) {
	var out lockedBuffer
	a, err := report.NewAsync(&out)
	if err != nil {
		t.Fatalf("NewAsync() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	a.Line(sampleLine(1))

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), report.Format(sampleLine(1))) {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("row not written within 2s")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() = %v", err)
	}
}

func TestAsync_DropsWhenFull(t *testing.T) {
	var out lockedBuffer
	a, err := report.NewAsync(&out)
	if err != nil {
		t.Fatalf("NewAsync() error: %v", err)
	}

	// No drainer running: the ring fills up
	const pushed = 5000
	for i := uint64(0); i < pushed; i++ {
		a.Line(sampleLine(i))
	}

	if a.Dropped() == 0 {
		t.Error("expected drops with no drainer and a full ring")
	}
	if a.Dropped() >= pushed {
		t.Errorf("Dropped() = %d, expected some rows to fit", a.Dropped())
	}
}
