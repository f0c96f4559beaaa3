package models

import (
	"strings"
	"time"

	"github.com/marcus/tick/internal/dateparse"
)

// Priority represents todo priority
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium" // default
	PriorityHigh   Priority = "high"
)

// Filter selects todos by completion state
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
)

// SortKey orders the visible todo list
type SortKey string

const (
	SortCreated  SortKey = "created"
	SortDueDate  SortKey = "due"
	SortPriority SortKey = "priority"
	SortAlpha    SortKey = "alpha"
)

// AllCategories is the category selection that disables category filtering
const AllCategories = "all"

// DefaultCategories are seeded into a fresh store
var DefaultCategories = []string{"Personal", "Work", "Shopping", "Health"}

// DateLayout is the ISO date format used for due dates
const DateLayout = dateparse.Layout

// Todo is a single todo record
type Todo struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Priority  Priority  `json:"priority" yaml:"priority"`
	Category  string    `json:"category" yaml:"category"`
	DueDate   string    `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Tags      []string  `json:"tags" yaml:"tags"`
}

// HasTag reports whether the todo carries tag
func (t Todo) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with t
func (t Todo) Clone() Todo {
	c := t
	c.Tags = append([]string(nil), t.Tags...)
	return c
}

// IsOverdue reports whether the todo has a due date before today's date
// and is not completed. Unparseable dates are never overdue.
func (t Todo) IsOverdue(now time.Time) bool {
	return !t.Completed && dateparse.IsOverdue(t.DueDate, now)
}

// PriorityRank orders priorities: high sorts first
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// IsValidPriority checks if a priority is valid
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// NormalizePriority converts alternate priority formats to canonical form
// Accepts: "1", "2", "3" and "l", "m", "h" as aliases for low, medium, high
func NormalizePriority(p string) Priority {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "1", "l", "low":
		return PriorityLow
	case "2", "m", "med", "medium":
		return PriorityMedium
	case "3", "h", "high":
		return PriorityHigh
	default:
		return Priority(p)
	}
}

// IsValidFilter checks if a filter is valid
func IsValidFilter(f Filter) bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted, FilterOverdue:
		return true
	}
	return false
}

// IsValidSortKey checks if a sort key is valid
func IsValidSortKey(s SortKey) bool {
	switch s {
	case SortCreated, SortDueDate, SortPriority, SortAlpha:
		return true
	}
	return false
}

// NormalizeSortKey converts alternate sort names to canonical form
// Accepts: "createdAt", "dueDate", "alphabetical", "az"
func NormalizeSortKey(s string) SortKey {
	switch strings.ToLower(s) {
	case "createdat", "created_at", "newest":
		return SortCreated
	case "duedate", "due_date":
		return SortDueDate
	case "alphabetical", "az", "text":
		return SortAlpha
	default:
		return SortKey(strings.ToLower(s))
	}
}

// CategoryStat counts todos in one category
type CategoryStat struct {
	Name      string `json:"name" yaml:"name"`
	Total     int    `json:"total" yaml:"total"`
	Completed int    `json:"completed" yaml:"completed"`
}

// Stats summarizes the todo list
type Stats struct {
	Total        int            `json:"total"`
	Active       int            `json:"active"`
	Completed    int            `json:"completed"`
	Overdue      int            `json:"overdue"`
	HighPriority int            `json:"high_priority"`
	Categories   []CategoryStat `json:"categories"`
}

// CompletionRate returns completed/total as a percentage
func (s Stats) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}

// Config represents the local config state
type Config struct {
	Pomodoro        PomodoroConfig `json:"pomodoro"`
	SearchDebounce  Duration       `json:"search_debounce,omitempty"`
	DefaultCategory string         `json:"default_category,omitempty"`
	Driver          string         `json:"driver,omitempty"`     // sqlite (default) or sqlite3
	LogLevel        string         `json:"log_level,omitempty"`  // debug, info, warn, error
	LogFormat       string         `json:"log_format,omitempty"` // text or json
}

// PomodoroConfig holds timer session lengths
type PomodoroConfig struct {
	Work           Duration `json:"work,omitempty"`
	ShortBreak     Duration `json:"short_break,omitempty"`
	LongBreak      Duration `json:"long_break,omitempty"`
	LongBreakEvery int      `json:"long_break_every,omitempty"`
}

// Duration is a time.Duration that marshals as a Go duration string
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(b []byte) error {
	parsed, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }
