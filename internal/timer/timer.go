// Package timer implements a start/pause/reset interval timer that counts
// elapsed whole seconds.
package timer

import (
	"sync"
	"time"

	"github.com/marcus/tick/internal/clock"
)

// Interval is the tick period of a Timer.
const Interval = time.Second

// State is a snapshot of a Timer.
type State struct {
	Elapsed int  `json:"elapsed"`
	Running bool `json:"running"`
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock sets the clock used for scheduling ticks.
func WithClock(c clock.Clock) Option {
	return func(t *Timer) { t.clock = c }
}

// OnTick registers fn to be called after every tick with the new state.
// fn runs outside the timer's lock and may call back into the timer.
func OnTick(fn func(State)) Option {
	return func(t *Timer) { t.onTick = fn }
}

// Timer counts elapsed seconds while running. The zero value is not
// usable; create one with New and release it with Close.
//
// Each scheduled tick carries the generation it was armed in. Pause,
// Reset and Close bump the generation, so a tick that was already
// dispatched by the runtime when the handle was stopped does nothing.
type Timer struct {
	mu      sync.Mutex
	clock   clock.Clock
	onTick  func(State)
	elapsed int
	running bool
	closed  bool
	gen     uint64
	handle  clock.Timer
	next    time.Time
}

// New returns an idle timer starting at elapsed seconds.
func New(elapsed int, opts ...Option) *Timer {
	if elapsed < 0 {
		elapsed = 0
	}
	t := &Timer{clock: clock.Real, elapsed: elapsed}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins counting. It is a no-op if the timer is already running
// or has been closed.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.closed {
		return
	}
	t.running = true
	t.next = t.clock.Now().Add(Interval)
	t.armLocked()
}

// Pause stops counting and keeps the elapsed seconds. A partial second
// in progress is discarded.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	t.cancelLocked()
}

// Reset stops the timer and sets elapsed to zero.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.elapsed = 0
	t.cancelLocked()
}

// Toggle starts an idle timer or pauses a running one.
func (t *Timer) Toggle() {
	if t.State().Running {
		t.Pause()
		return
	}
	t.Start()
}

// Close cancels any scheduled tick. The timer keeps its last state but
// can no longer be started.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.running = false
	t.cancelLocked()
}

// State returns the current elapsed seconds and running flag.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{Elapsed: t.elapsed, Running: t.running}
}

// Elapsed returns the elapsed whole seconds.
func (t *Timer) Elapsed() int {
	return t.State().Elapsed
}

// Running reports whether the timer is counting.
func (t *Timer) Running() bool {
	return t.State().Running
}

// armLocked schedules the tick due at t.next. Ticks are measured from
// the start deadline, so callback latency does not accumulate.
func (t *Timer) armLocked() {
	t.gen++
	gen := t.gen
	d := max(t.next.Sub(t.clock.Now()), 0)
	t.handle = t.clock.AfterFunc(d, func() { t.tick(gen) })
}

func (t *Timer) cancelLocked() {
	t.gen++
	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || !t.running {
		t.mu.Unlock()
		return
	}
	t.elapsed++
	t.next = t.next.Add(Interval)
	t.armLocked()
	s := State{Elapsed: t.elapsed, Running: t.running}
	fn := t.onTick
	t.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}
