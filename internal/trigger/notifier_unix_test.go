//go:build unix

package trigger_test

import (
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/randomizedcoder/jitter/internal/trigger"
)

func TestSignalNotifier_Self(t *testing.T) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR2)
	defer signal.Stop(ch)

	n, err := trigger.NewSignalNotifier(os.Getpid())
	if err != nil {
		t.Fatalf("NewSignalNotifier() error: %v", err)
	}
	if err := n.Probe(); err != nil {
		t.Fatalf("Probe() on own pid: %v", err)
	}
	if err := n.Notify(); err != nil {
		t.Fatalf("Notify() error: %v", err)
	}

	select {
	case sig := <-ch:
		if sig != syscall.SIGUSR2 {
			t.Errorf("received %v, want SIGUSR2", sig)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SIGUSR2 not received")
	}
}

func TestSignalNotifier_InvalidPID(t *testing.T) {
	for _, pid := range []int{0, -1} {
		if _, err := trigger.NewSignalNotifier(pid); err == nil {
			t.Errorf("NewSignalNotifier(%d) expected error", pid)
		}
	}
}

func TestSignalNotifier_MissingProcess(t *testing.T) {
	// Above the Linux pid_max ceiling (4194304), so never a live process
	n, err := trigger.NewSignalNotifier(1 << 30)
	if err != nil {
		t.Fatalf("NewSignalNotifier() error: %v", err)
	}
	if err := n.Probe(); err == nil {
		t.Error("expected Probe() error for missing process")
	}
	if err := n.Notify(); err == nil {
		t.Error("expected Notify() error for missing process")
	}
}
