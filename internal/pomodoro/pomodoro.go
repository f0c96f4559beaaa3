// Package pomodoro runs work and break sessions on top of an interval
// timer, switching modes automatically when a session runs out.
package pomodoro

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/marcus/tick/internal/clock"
	"github.com/marcus/tick/internal/models"
	"github.com/marcus/tick/internal/timer"
	"github.com/marcus/tick/internal/toggle"
)

// Mode is the kind of session being timed.
type Mode string

const (
	Work       Mode = "work"
	ShortBreak Mode = "short"
	LongBreak  Mode = "long"
)

// ParseMode accepts the mode names plus a few common spellings.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "work", "w", "focus":
		return Work, nil
	case "short", "shortBreak", "short-break", "break", "s":
		return ShortBreak, nil
	case "long", "longBreak", "long-break", "l":
		return LongBreak, nil
	}
	return "", fmt.Errorf("unknown mode %q (use work, short or long)", s)
}

// Label returns a display name for the mode.
func (m Mode) Label() string {
	switch m {
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	default:
		return "Work"
	}
}

// IsBreak reports whether m is one of the break modes.
func (m Mode) IsBreak() bool {
	return m == ShortBreak || m == LongBreak
}

// Durations holds the length of each mode and the long break cadence.
type Durations struct {
	Work           time.Duration
	ShortBreak     time.Duration
	LongBreak      time.Duration
	LongBreakEvery int
}

// DefaultDurations returns the classic 25/5/15 minute schedule.
func DefaultDurations() Durations {
	return Durations{
		Work:           25 * time.Minute,
		ShortBreak:     5 * time.Minute,
		LongBreak:      15 * time.Minute,
		LongBreakEvery: 4,
	}
}

// FromConfig builds Durations from the pomodoro config section, keeping
// defaults for zero values.
func FromConfig(c models.PomodoroConfig) Durations {
	d := DefaultDurations()
	if c.Work > 0 {
		d.Work = c.Work.Std()
	}
	if c.ShortBreak > 0 {
		d.ShortBreak = c.ShortBreak.Std()
	}
	if c.LongBreak > 0 {
		d.LongBreak = c.LongBreak.Std()
	}
	if c.LongBreakEvery > 0 {
		d.LongBreakEvery = c.LongBreakEvery
	}
	return d
}

func (d Durations) of(m Mode) time.Duration {
	switch m {
	case ShortBreak:
		return d.ShortBreak
	case LongBreak:
		return d.LongBreak
	default:
		return d.Work
	}
}

// Completion describes a session that ran out and the mode that follows.
type Completion struct {
	From   Mode
	To     Mode
	Cycles int
}

// Message returns a short notification text for the completion.
func (c Completion) Message() string {
	if c.From == Work {
		return "Work session completed! Time for a break."
	}
	return "Break completed! Time for a work session."
}

// Status is a point-in-time view of a session.
type Status struct {
	Mode      Mode
	Cycles    int
	Elapsed   int
	Duration  int
	Remaining int
	Running   bool
	Custom    bool
}

// Progress returns the elapsed fraction of the session in [0, 1].
func (s Status) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := float64(s.Elapsed) / float64(s.Duration)
	if p > 1 {
		return 1
	}
	return p
}

// Clock renders the remaining time as MM:SS.
func (s Status) Clock() string {
	return FormatClock(s.Remaining)
}

// FormatClock renders seconds as zero-padded MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock driving the underlying timer.
func WithClock(c clock.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithDurations overrides the default schedule.
func WithDurations(d Durations) Option {
	return func(s *Session) { s.durations = d }
}

// OnComplete registers fn to run after a session runs out and the next
// mode has been selected.
func OnComplete(fn func(Completion)) Option {
	return func(s *Session) { s.onComplete = fn }
}

// OnTick registers fn to run after every second counted.
func OnTick(fn func(Status)) Option {
	return func(s *Session) { s.onTick = fn }
}

// Session is a pomodoro cycle: a mode, a cycle counter and a timer.
// Lock order is session then timer; timer callbacks run outside the
// timer's lock.
type Session struct {
	mu            sync.Mutex
	clock         clock.Clock
	durations     Durations
	mode          Mode
	cycles        int
	custom        toggle.Toggle
	customMinutes int
	timer         *timer.Timer
	onComplete    func(Completion)
	onTick        func(Status)
}

// New returns an idle session in work mode.
func New(opts ...Option) *Session {
	s := &Session{
		clock:         clock.Real,
		durations:     DefaultDurations(),
		mode:          Work,
		custom:        toggle.New(false),
		customMinutes: 25,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.durations.LongBreakEvery <= 0 {
		s.durations.LongBreakEvery = DefaultDurations().LongBreakEvery
	}
	s.timer = timer.New(0, timer.WithClock(s.clock), timer.OnTick(s.handleTick))
	return s
}

// Start begins or resumes counting.
func (s *Session) Start() { s.timer.Start() }

// Pause stops counting and keeps the elapsed time.
func (s *Session) Pause() { s.timer.Pause() }

// Toggle starts an idle session or pauses a running one.
func (s *Session) Toggle() { s.timer.Toggle() }

// Reset zeroes the timer. In work mode it also zeroes the cycle count.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Reset()
	if s.mode == Work {
		s.cycles = 0
	}
}

// SetMode switches to m and resets the timer. Moving from a break into
// work counts a cycle.
func (s *Session) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setModeLocked(m)
}

// ToggleCustom switches between the mode durations and the custom
// duration. The elapsed time is kept.
func (s *Session) ToggleCustom() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.custom.Toggle()
}

// SetCustomMinutes sets the custom duration; values below one minute
// are raised to one.
func (s *Session) SetCustomMinutes(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customMinutes = max(n, 1)
}

// UseCustom enables or disables the custom duration.
func (s *Session) UseCustom(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.custom.Set(on)
}

// Status returns the current view of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked(s.timer.State())
}

// Close stops the timer for good.
func (s *Session) Close() {
	s.timer.Close()
}

func (s *Session) durationLocked() int {
	if s.custom.On() {
		return s.customMinutes * 60
	}
	return int(s.durations.of(s.mode) / time.Second)
}

func (s *Session) statusLocked(ts timer.State) Status {
	d := s.durationLocked()
	return Status{
		Mode:      s.mode,
		Cycles:    s.cycles,
		Elapsed:   ts.Elapsed,
		Duration:  d,
		Remaining: max(0, d-ts.Elapsed),
		Running:   ts.Running,
		Custom:    s.custom.On(),
	}
}

func (s *Session) setModeLocked(m Mode) {
	prev := s.mode
	s.mode = m
	s.timer.Reset()
	if m == Work && prev != Work {
		s.cycles++
	}
}

// nextLocked picks the mode following the current one. The long break
// check runs on the cycle count before the switch, so the first long
// break comes after LongBreakEvery completed breaks.
func (s *Session) nextLocked() Mode {
	if s.mode != Work {
		return Work
	}
	if s.cycles > 0 && s.cycles%s.durations.LongBreakEvery == 0 {
		return LongBreak
	}
	return ShortBreak
}

func (s *Session) handleTick(ts timer.State) {
	s.mu.Lock()
	st := s.statusLocked(ts)
	if !ts.Running || st.Elapsed < st.Duration {
		fn := s.onTick
		s.mu.Unlock()
		if fn != nil {
			fn(st)
		}
		return
	}

	s.timer.Pause()
	from := s.mode
	s.setModeLocked(s.nextLocked())
	c := Completion{From: from, To: s.mode, Cycles: s.cycles}
	tickFn, doneFn := s.onTick, s.onComplete
	final := s.statusLocked(s.timer.State())
	s.mu.Unlock()

	slog.Debug("pomodoro: session complete", "from", c.From, "to", c.To, "cycles", c.Cycles)
	if tickFn != nil {
		tickFn(final)
	}
	if doneFn != nil {
		doneFn(c)
	}
}
