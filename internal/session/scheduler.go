package session

import (
	"sync/atomic"
	"time"
)

// Scheduler runs deferred callbacks. Implementations must run fn on the
// goroutine that drives the Game, never concurrently with another operation.
type Scheduler interface {
	// AfterFunc schedules fn to run once after d. Calling cancel before fn
	// runs drops it; calling cancel later has no effect.
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// LoopScheduler turns timers into events for a single-threaded loop: when a
// timer fires, its callback is queued on Events and runs only once the loop
// receives and calls it.
type LoopScheduler struct {
	events chan func()
	done   chan struct{}
}

// NewLoopScheduler creates a scheduler whose callbacks are delivered on Events.
func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{
		events: make(chan func(), 16),
		done:   make(chan struct{}),
	}
}

// AfterFunc implements Scheduler.
func (s *LoopScheduler) AfterFunc(d time.Duration, fn func()) func() {
	var canceled atomic.Bool
	t := time.AfterFunc(d, func() {
		select {
		case s.events <- func() {
			if !canceled.Load() {
				fn()
			}
		}:
		case <-s.done:
		}
	})
	return func() {
		canceled.Store(true)
		t.Stop()
	}
}

// Events delivers fired callbacks. The loop must call each one it receives.
func (s *LoopScheduler) Events() <-chan func() {
	return s.events
}

// Close stops delivering events. Timers that fire afterwards are dropped.
func (s *LoopScheduler) Close() {
	close(s.done)
}
