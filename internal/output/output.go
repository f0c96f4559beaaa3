// Package output provides styled terminal output helpers (success, error,
// warning, todo formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/marcus/tick/internal/dateparse"
	"github.com/marcus/tick/internal/models"
)

var (
	// Styles
	titleStyle     = lipgloss.NewStyle().Bold(true)
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Strikethrough(true)
	tagStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	categoryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	priorityStyles = map[models.Priority]lipgloss.Style{
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		models.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

var stdout io.Writer = os.Stdout

// ShortIDLen is how many ID characters list views show.
const ShortIDLen = 8

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	return WriteJSON(stdout, v)
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound      = "not_found"
	ErrCodeAmbiguous     = "ambiguous_id"
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeDatabaseError = "database_error"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	WriteJSON(stdout, map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}

// ShortID truncates an ID for display.
func ShortID(id string) string {
	if len(id) > ShortIDLen {
		return id[:ShortIDLen]
	}
	return id
}

// FormatPriority formats a priority with its color
func FormatPriority(p models.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		return fmt.Sprintf("[%s]", p)
	}
	return style.Render(fmt.Sprintf("[%s]", p))
}

// CheckBox renders the completion marker.
func CheckBox(completed bool) string {
	if completed {
		return successStyle.Render("[x]")
	}
	return "[ ]"
}

// FormatDue renders a due date relative to now; overdue dates are red.
func FormatDue(t models.Todo, now time.Time) string {
	if t.DueDate == "" {
		return ""
	}
	label := "due " + dateparse.Describe(t.DueDate, now)
	if t.IsOverdue(now) {
		return errorStyle.Render("overdue, " + label)
	}
	return subtleStyle.Render(label)
}

// FormatTags renders tags as #tag.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = "#" + tag
	}
	return tagStyle.Render(strings.Join(parts, " "))
}

// FormatTodoShort formats a todo on one line
func FormatTodoShort(t models.Todo, now time.Time) string {
	text := t.Text
	if t.Completed {
		text = doneStyle.Render(text)
	}
	parts := []string{
		CheckBox(t.Completed),
		titleStyle.Render(ShortID(t.ID)),
		FormatPriority(t.Priority),
		text,
		categoryStyle.Render(t.Category),
	}
	if due := FormatDue(t, now); due != "" {
		parts = append(parts, due)
	}
	if tags := FormatTags(t.Tags); tags != "" {
		parts = append(parts, tags)
	}
	return strings.Join(parts, "  ")
}

// FormatTodoLong formats every field of a todo
func FormatTodoLong(t models.Todo, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s: %s", t.ID, t.Text)))
	sb.WriteString("\n")
	status := "active"
	if t.Completed {
		status = "completed"
	}
	sb.WriteString(fmt.Sprintf("Status: %s | Priority: %s | Category: %s\n", status, FormatPriority(t.Priority), t.Category))
	if t.DueDate != "" {
		sb.WriteString(fmt.Sprintf("Due: %s (%s)\n", t.DueDate, FormatDue(t, now)))
	}
	if len(t.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags: %s\n", FormatTags(t.Tags)))
	}
	sb.WriteString(subtleStyle.Render("Created " + FormatTimeAgo(t.CreatedAt, now)))
	sb.WriteString("\n")
	return sb.String()
}

// FormatTimeAgo formats a time relative to now, e.g. "3 hours ago".
func FormatTimeAgo(t, now time.Time) string {
	if now.Sub(t) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// ProgressBar renders a fixed-width bar for pct in [0, 100].
func ProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = math.Max(0, math.Min(100, pct))
	filled := int(math.Round(pct / 100 * float64(width)))
	return successStyle.Render(strings.Repeat("█", filled)) + subtleStyle.Render(strings.Repeat("░", width-filled))
}

// FormatStats renders the summary shown by the stats command.
func FormatStats(s models.Stats) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Todo Statistics"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Total:         %s\n", humanize.Comma(int64(s.Total))))
	sb.WriteString(fmt.Sprintf("  Active:        %d\n", s.Active))
	sb.WriteString(fmt.Sprintf("  Completed:     %d\n", s.Completed))
	overdue := fmt.Sprintf("%d", s.Overdue)
	if s.Overdue > 0 {
		overdue = errorStyle.Render(overdue)
	}
	sb.WriteString(fmt.Sprintf("  Overdue:       %s\n", overdue))
	sb.WriteString(fmt.Sprintf("  High priority: %d\n", s.HighPriority))
	sb.WriteString(fmt.Sprintf("  Progress:      %s %.0f%%\n", ProgressBar(s.CompletionRate(), 20), s.CompletionRate()))

	if len(s.Categories) > 0 {
		sb.WriteString(SectionHeader("categories"))
		for _, c := range s.Categories {
			sb.WriteString(fmt.Sprintf("  %-12s %d/%d\n", c.Name, c.Completed, c.Total))
		}
	}
	return sb.String()
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nCATEGORIES:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// Plural returns "1 todo" or "3 todos".
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), word)
}
