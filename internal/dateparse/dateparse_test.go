package dateparse

import (
	"errors"
	"testing"
	"time"
)

// Wednesday, 2026-02-18 12:00 UTC
var testNow = time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)

func TestParseFrom(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2026-03-01", "2026-03-01"},
		{"2025-12-31", "2025-12-31"},
		{"today", "2026-02-18"},
		{"  Tomorrow  ", "2026-02-19"},
		{"yesterday", "2026-02-17"},
		{"next-week", "2026-02-23"},
		{"next-month", "2026-03-01"},
		{"+0d", "2026-02-18"},
		{"+10d", "2026-02-28"},
		{"+2w", "2026-03-04"},
		{"+1m", "2026-03-18"},
		{"mon", "2026-02-23"},
		{"wednesday", "2026-02-25"},
		{"THU", "2026-02-19"},
		{"sunday", "2026-02-22"},
	}
	for _, tt := range tests {
		got, err := ParseFrom(tt.input, testNow)
		if err != nil {
			t.Errorf("ParseFrom(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFrom(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseFromEdges(t *testing.T) {
	// Jan 31 + 1m normalizes past the end of February.
	jan31 := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	if got, _ := ParseFrom("+1m", jan31); got != "2026-03-03" {
		t.Errorf("Jan 31 +1m = %q, want 2026-03-03", got)
	}

	monday := time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)
	if got, _ := ParseFrom("next-week", monday); got != "2026-02-23" {
		t.Errorf("next-week on Monday = %q, want 2026-02-23", got)
	}

	dec := time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC)
	if got, _ := ParseFrom("next-month", dec); got != "2026-01-01" {
		t.Errorf("next-month in December = %q, want 2026-01-01", got)
	}
}

func TestParseFromErrors(t *testing.T) {
	for _, input := range []string{"", "next year", "+3x", "notaday", "2026/03/01", "+d", "+-1d", "2026-02-30"} {
		_, err := ParseFrom(input, testNow)
		if !errors.Is(err, ErrUnrecognized) {
			t.Errorf("ParseFrom(%q) err = %v, want ErrUnrecognized", input, err)
		}
	}
}

func TestParseUsesNow(t *testing.T) {
	got, err := Parse("today")
	if err != nil {
		t.Fatalf("Parse(today): %v", err)
	}
	if want := time.Now().Format(Layout); got != want {
		t.Errorf("Parse(today) = %q, want %q", got, want)
	}
}

func TestNone(t *testing.T) {
	for _, in := range []string{"", "none", " NONE ", "clear", "-"} {
		if !None(in) {
			t.Errorf("None(%q) = false", in)
		}
	}
	if None("today") {
		t.Error("None(today) = true")
	}
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2026-02-17", true},
		{"2026-01-01", true},
		{"2026-02-18", false},
		{"2026-02-19", false},
		{"", false},
		{"soon", false},
	}
	for _, tt := range tests {
		if got := IsOverdue(tt.date, testNow); got != tt.want {
			t.Errorf("IsOverdue(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}

	// Late evening in a zone ahead of UTC is already the next day there.
	tokyo := time.FixedZone("JST", 9*3600)
	late := time.Date(2026, 2, 18, 23, 30, 0, 0, time.UTC).In(tokyo)
	if !IsOverdue("2026-02-18", late) {
		t.Error("2026-02-18 should be overdue on 2026-02-19 in JST")
	}
}

func TestDescribe(t *testing.T) {
	tests := map[string]string{
		"2026-02-18": "today",
		"2026-02-19": "tomorrow",
		"2026-02-17": "yesterday",
		"2026-02-21": "in 3 days",
		"2026-02-08": "10 days ago",
		"whenever":   "whenever",
	}
	for in, want := range tests {
		if got := Describe(in, testNow); got != want {
			t.Errorf("Describe(%q) = %q, want %q", in, got, want)
		}
	}
}
