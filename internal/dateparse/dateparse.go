// Package dateparse turns due date input such as "tomorrow", "+2w" or
// "fri" into ISO dates (YYYY-MM-DD) and compares them against today.
package dateparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the canonical due date format.
const Layout = "2006-01-02"

// ErrUnrecognized is returned for input no rule understands.
var ErrUnrecognized = errors.New("unrecognized date")

// None is accepted by callers to clear a due date.
func None(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "none", "clear", "-":
		return true
	}
	return false
}

// Parse resolves input relative to time.Now.
func Parse(input string) (string, error) {
	return ParseFrom(input, time.Now())
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseFrom resolves input relative to now. Accepted forms:
//
//	2026-03-01            exact date
//	today tomorrow yesterday
//	next-week             the coming Monday
//	next-month            the 1st of next month
//	+3d +2w +1m           offsets in days, weeks or months
//	fri friday            the next such weekday, never today
func ParseFrom(input string, now time.Time) (string, error) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return "", fmt.Errorf("empty date: %w", ErrUnrecognized)
	}

	if t, err := time.Parse(Layout, in); err == nil {
		return t.Format(Layout), nil
	}

	switch in {
	case "today":
		return now.Format(Layout), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(Layout), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(Layout), nil
	case "next-week", "nextweek":
		return next(now, time.Monday).Format(Layout), nil
	case "next-month", "nextmonth":
		y, m, _ := now.Date()
		return time.Date(y, m+1, 1, 0, 0, 0, 0, now.Location()).Format(Layout), nil
	}

	if rest, ok := strings.CutPrefix(in, "+"); ok {
		return offset(rest, now, input)
	}

	if wd, ok := weekdays[in]; ok {
		return next(now, wd).Format(Layout), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnrecognized, input)
}

func offset(off string, now time.Time, input string) (string, error) {
	if len(off) < 2 {
		return "", fmt.Errorf("%w: %q", ErrUnrecognized, input)
	}
	n, err := strconv.Atoi(off[:len(off)-1])
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnrecognized, input)
	}
	switch off[len(off)-1] {
	case 'd':
		return now.AddDate(0, 0, n).Format(Layout), nil
	case 'w':
		return now.AddDate(0, 0, 7*n).Format(Layout), nil
	case 'm':
		return now.AddDate(0, n, 0).Format(Layout), nil
	}
	return "", fmt.Errorf("%w: unit %q in %q (use d, w or m)", ErrUnrecognized, off[len(off)-1:], input)
}

// next returns the first day after now falling on wd.
func next(now time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days)
}

// Valid reports whether date is in canonical form.
func Valid(date string) bool {
	_, err := time.Parse(Layout, date)
	return err == nil
}

// DaysUntil returns the number of calendar days from today to date in
// now's location. Negative means the date has passed.
func DaysUntil(date string, now time.Time) (int, bool) {
	due, err := time.ParseInLocation(Layout, date, now.Location())
	if err != nil {
		return 0, false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	// Round to absorb DST shifts between the two midnights.
	return int(due.Sub(today).Round(24*time.Hour) / (24 * time.Hour)), true
}

// IsOverdue reports whether date is strictly before today. Empty or
// malformed dates are never overdue.
func IsOverdue(date string, now time.Time) bool {
	n, ok := DaysUntil(date, now)
	return ok && n < 0
}

// Describe renders date relative to today: "today", "tomorrow",
// "in 3 days", "2 days ago". Malformed input is returned unchanged.
func Describe(date string, now time.Time) string {
	n, ok := DaysUntil(date, now)
	switch {
	case !ok:
		return date
	case n == 0:
		return "today"
	case n == 1:
		return "tomorrow"
	case n == -1:
		return "yesterday"
	case n > 1:
		return fmt.Sprintf("in %d days", n)
	default:
		return fmt.Sprintf("%d days ago", -n)
	}
}
