package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marcus/tick/internal/models"
)

var testNow = time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)

func sampleTodo() models.Todo {
	return models.Todo{
		ID:        "0b9c2f4e-1111-2222-3333-444455556666",
		Text:      "File taxes",
		Priority:  models.PriorityHigh,
		Category:  "Work",
		DueDate:   "2026-02-10",
		Tags:      []string{"money", "q1"},
		CreatedAt: testNow.Add(-3 * time.Hour),
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("0b9c2f4e-1111"); got != "0b9c2f4e" {
		t.Errorf("ShortID = %q", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID(abc) = %q", got)
	}
}

func TestFormatTodoShort(t *testing.T) {
	got := FormatTodoShort(sampleTodo(), testNow)
	for _, want := range []string{"[ ]", "0b9c2f4e", "[high]", "File taxes", "Work", "overdue", "#money #q1"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatTodoShort missing %q in %q", want, got)
		}
	}

	done := sampleTodo()
	done.Completed = true
	got = FormatTodoShort(done, testNow)
	if !strings.Contains(got, "[x]") || strings.Contains(got, "overdue") {
		t.Errorf("completed todo = %q", got)
	}
}

func TestFormatDue(t *testing.T) {
	todo := sampleTodo()
	todo.DueDate = "2026-02-19"
	if got := FormatDue(todo, testNow); !strings.Contains(got, "due tomorrow") || strings.Contains(got, "overdue") {
		t.Errorf("FormatDue = %q", got)
	}
	todo.DueDate = ""
	if got := FormatDue(todo, testNow); got != "" {
		t.Errorf("FormatDue(no date) = %q", got)
	}
}

func TestFormatTodoLong(t *testing.T) {
	got := FormatTodoLong(sampleTodo(), testNow)
	for _, want := range []string{"File taxes", "Status: active", "Category: Work", "Due: 2026-02-10", "Tags:", "3 hours ago"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatTodoLong missing %q in %q", want, got)
		}
	}
}

func TestFormatTimeAgo(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5 minutes ago"},
		{2 * time.Hour, "2 hours ago"},
		{3 * 24 * time.Hour, "3 days ago"},
	}
	for _, tt := range tests {
		if got := FormatTimeAgo(testNow.Add(-tt.ago), testNow); got != tt.want {
			t.Errorf("FormatTimeAgo(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestFormatStats(t *testing.T) {
	s := models.Stats{
		Total: 4, Active: 3, Completed: 1, Overdue: 1, HighPriority: 2,
		Categories: []models.CategoryStat{{Name: "Work", Total: 2}, {Name: "Personal", Total: 1, Completed: 1}},
	}
	got := FormatStats(s)
	for _, want := range []string{"Total:         4", "High priority: 2", "25%", "CATEGORIES:", "Personal", "1/1"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatStats missing %q in:\n%s", want, got)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		pct    float64
		filled int
	}{
		{0, 0}, {50, 5}, {100, 10}, {150, 10}, {-5, 0},
	}
	for _, tt := range tests {
		got := ProgressBar(tt.pct, 10)
		if n := strings.Count(got, "█"); n != tt.filled {
			t.Errorf("ProgressBar(%v) filled = %d, want %d", tt.pct, n, tt.filled)
		}
		if n := strings.Count(got, "█") + strings.Count(got, "░"); n != 10 {
			t.Errorf("ProgressBar(%v) width = %d", tt.pct, n)
		}
	}
}

func TestWriteJSONAndYAML(t *testing.T) {
	todos := []models.Todo{sampleTodo()}

	var jb bytes.Buffer
	if err := WriteJSON(&jb, todos); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var fromJSON []models.Todo
	if err := json.Unmarshal(jb.Bytes(), &fromJSON); err != nil || fromJSON[0].Text != "File taxes" {
		t.Errorf("JSON output = %s (%v)", jb.String(), err)
	}

	var yb bytes.Buffer
	if err := WriteYAML(&yb, todos); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	if !strings.Contains(yb.String(), "due_date:") || !strings.Contains(yb.String(), "2026-02-10") {
		t.Errorf("YAML output:\n%s", yb.String())
	}
	var fromYAML []models.Todo
	if err := yaml.Unmarshal(yb.Bytes(), &fromYAML); err != nil || len(fromYAML[0].Tags) != 2 {
		t.Errorf("YAML decode = %+v (%v)", fromYAML, err)
	}
}

func TestPlural(t *testing.T) {
	if got := Plural(1, "todo"); got != "1 todo" {
		t.Errorf("Plural(1) = %q", got)
	}
	if got := Plural(1200, "todo"); got != "1,200 todos" {
		t.Errorf("Plural(1200) = %q", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	got, err := RenderMarkdown("# Tips\n\n- work for **25** minutes", 10)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(got, "Tips") || !strings.Contains(got, "25") {
		t.Errorf("rendered = %q", got)
	}
	if got, _ := RenderMarkdown("   ", 80); got != "" {
		t.Errorf("blank render = %q", got)
	}
}
