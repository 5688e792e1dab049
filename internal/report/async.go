package report

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	ring "github.com/randomizedcoder/go-lock-free-ring"
)

const (
	// asyncCapacity is the number of pending rows; at the default rate
	// of one row per second this is over a quarter hour of backlog.
	asyncCapacity = 1024

	// asyncShards is 1: the sample loop is the only producer.
	asyncShards = 1

	// asyncProducer is the sample loop's producer ID.
	asyncProducer = 0

	// DefaultPoll is how often the drainer checks the ring when it has
	// not been woken.
	DefaultPoll = 50 * time.Millisecond
)

type entry struct {
	header bool
	line   Line
}

// Async moves formatting and write(2) off the sample loop.
//
// Header and Line push onto a lock-free ring and return; Run, on its own
// goroutine, drains the ring into a Writer. A full ring drops the entry
// rather than blocking the loop; see Dropped.
//
// Exactly one goroutine may call Header/Line, and exactly one may call
// Run.
type Async struct {
	ring    *ring.ShardedRing
	out     *Writer
	poll    time.Duration
	wake    chan struct{}
	closed  atomic.Bool
	dropped atomic.Uint64
}

// NewAsync creates an Async printer writing to w.
func NewAsync(w io.Writer) (*Async, error) {
	r, err := ring.NewShardedRing(asyncCapacity, asyncShards)
	if err != nil {
		return nil, fmt.Errorf("report: create ring: %w", err)
	}
	return &Async{
		ring: r,
		out:  NewWriter(w),
		poll: DefaultPoll,
		wake: make(chan struct{}, 1),
	}, nil
}

// Header queues the title line.
func (a *Async) Header() {
	a.push(entry{header: true})
}

// Line queues one row.
func (a *Async) Line(l Line) {
	a.push(entry{line: l})
}

func (a *Async) push(e entry) {
	if !a.ring.Write(asyncProducer, e) {
		a.dropped.Add(1)
		return
	}
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Run drains the ring until Close is called or ctx is done, flushing
// whatever is queued before returning. It returns the first write error.
func (a *Async) Run(ctx context.Context) error {
	t := time.NewTicker(a.poll)
	defer t.Stop()

	for {
		a.drain()
		if a.closed.Load() {
			a.drain()
			return a.out.Err()
		}

		select {
		case <-ctx.Done():
			a.drain()
			return a.out.Err()
		case <-a.wake:
		case <-t.C:
		}
	}
}

func (a *Async) drain() {
	for {
		v, ok := a.ring.TryRead()
		if !ok {
			return
		}
		e, ok := v.(entry)
		if !ok {
			continue
		}
		if e.header {
			a.out.Header()
		} else {
			a.out.Line(e.line)
		}
	}
}

// Close tells Run to flush and return. Call it from the producing
// goroutine after the last Line.
func (a *Async) Close() {
	a.closed.Store(true)
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Dropped returns the number of entries lost to a full ring.
func (a *Async) Dropped() uint64 {
	return a.dropped.Load()
}
