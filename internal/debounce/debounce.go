// Package debounce provides a trailing-edge debounced value.
package debounce

import (
	"sync"
	"time"

	"github.com/marcus/tick/internal/clock"
)

// Option configures a Value.
type Option func(*options)

type options struct {
	clock clock.Clock
}

// WithClock sets the clock used to schedule commits.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// Value holds the last input that stayed unchanged for a full delay.
//
// Every Set supersedes the pending commit. Superseded commits are
// cancelled through their handle and also fenced by a generation
// number, so a commit the runtime already dispatched is dropped.
type Value[T any] struct {
	mu         sync.Mutex
	clock      clock.Clock
	delay      time.Duration
	onCommit   func(T)
	current    T
	pending    T
	hasPending bool
	closed     bool
	gen        uint64
	handle     clock.Timer
}

// New returns a debounced value that starts at initial and commits
// inputs after delay. onCommit, if non-nil, is called with each
// committed value outside the internal lock.
func New[T any](initial T, delay time.Duration, onCommit func(T), opts ...Option) *Value[T] {
	o := options{clock: clock.Real}
	for _, opt := range opts {
		opt(&o)
	}
	return &Value[T]{
		clock:    o.clock,
		delay:    delay,
		onCommit: onCommit,
		current:  initial,
	}
}

// Set records a new input and restarts the delay window.
func (v *Value[T]) Set(in T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.cancelLocked()
	v.pending = in
	v.hasPending = true
	gen := v.gen
	v.handle = v.clock.AfterFunc(v.delay, func() { v.commit(gen) })
}

// Value returns the committed value.
func (v *Value[T]) Value() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Pending returns the input waiting to be committed, if any.
func (v *Value[T]) Pending() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending, v.hasPending
}

// Delay returns the quiet period required before a commit.
func (v *Value[T]) Delay() time.Duration {
	return v.delay
}

// Flush commits the pending input immediately. It reports whether there
// was anything to commit.
func (v *Value[T]) Flush() bool {
	v.mu.Lock()
	if v.closed || !v.hasPending {
		v.mu.Unlock()
		return false
	}
	v.cancelLocked()
	return v.commitLocked()
}

// Cancel drops the pending input without committing it.
func (v *Value[T]) Cancel() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cancelLocked()
	v.clearPendingLocked()
}

// Close cancels any pending commit. Later calls to Set are ignored.
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.cancelLocked()
	v.clearPendingLocked()
}

func (v *Value[T]) commit(gen uint64) {
	v.mu.Lock()
	if gen != v.gen || v.closed || !v.hasPending {
		v.mu.Unlock()
		return
	}
	v.handle = nil
	v.commitLocked()
}

// commitLocked is entered with v.mu held and releases it.
func (v *Value[T]) commitLocked() bool {
	v.current = v.pending
	committed := v.current
	v.clearPendingLocked()
	fn := v.onCommit
	v.mu.Unlock()

	if fn != nil {
		fn(committed)
	}
	return true
}

func (v *Value[T]) cancelLocked() {
	v.gen++
	if v.handle != nil {
		v.handle.Stop()
		v.handle = nil
	}
}

func (v *Value[T]) clearPendingLocked() {
	var zero T
	v.pending = zero
	v.hasPending = false
}
