// Package eventloop runs callbacks on a single cooperative thread. Work
// started with Go runs on its own goroutine; its completion is queued and
// applied only when the owner of the loop runs it, so tree state is never
// touched concurrently.
package eventloop

import (
	"context"
	"sync"
)

// Loop is a FIFO queue of callbacks plus a count of in-flight work.
type Loop struct {
	mu       sync.Mutex
	queue    []func()
	inflight int
	wake     chan struct{}
}

// New returns an idle loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn to run on the loop.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.signal()
}

// Go runs work on a new goroutine and queues the callback it returns. work
// must not touch loop-owned state; the returned callback may.
func (l *Loop) Go(work func() func()) {
	l.mu.Lock()
	l.inflight++
	l.mu.Unlock()

	go func() {
		var apply func()
		defer func() {
			l.mu.Lock()
			l.inflight--
			if apply != nil {
				l.queue = append(l.queue, apply)
			}
			l.mu.Unlock()
			l.signal()
		}()
		apply = work()
	}()
}

// RunPending runs queued callbacks, including ones they queue, until the
// queue is empty. It returns the number of callbacks run.
func (l *Loop) RunPending() int {
	ran := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return ran
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
		ran++
	}
}

// Idle reports whether nothing is queued or in flight.
func (l *Loop) Idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue) == 0 && l.inflight == 0
}

// Drain runs callbacks until no work is queued or in flight, or ctx ends.
func (l *Loop) Drain(ctx context.Context) error {
	for {
		l.RunPending()
		if l.Idle() {
			return nil
		}
		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Run processes callbacks until ctx ends.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()
		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
