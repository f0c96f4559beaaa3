package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/marcus/tick/internal/dateparse"
	"github.com/marcus/tick/internal/models"
	"github.com/marcus/tick/internal/store"
)

var errTextRequired = errors.New("text is required")

// addForm holds the huh form used to create a todo.
type addForm struct {
	Form *huh.Form

	// Bound values
	Text     string
	Priority string
	Category string
	Due      string
	Tags     string // comma separated

	now func() time.Time
}

func newAddForm(categories []string, defaultCategory string, now func() time.Time) *addForm {
	f := &addForm{
		Priority: string(models.PriorityMedium),
		Category: defaultCategory,
		now:      now,
	}
	if f.Category == "" && len(categories) > 0 {
		f.Category = categories[0]
	}

	categoryOptions := make([]huh.Option[string], 0, len(categories))
	for _, c := range categories {
		categoryOptions = append(categoryOptions, huh.NewOption(c, c))
	}

	f.Form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Todo").
				Value(&f.Text).
				Placeholder("What needs doing?").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errTextRequired
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("High", string(models.PriorityHigh)),
					huh.NewOption("Medium", string(models.PriorityMedium)),
					huh.NewOption("Low", string(models.PriorityLow)),
				).
				Value(&f.Priority),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions...).
				Value(&f.Category),
			huh.NewInput().
				Title("Due").
				Value(&f.Due).
				Placeholder("tomorrow, fri, +3d, 2026-03-01").
				Validate(f.validateDue),
			huh.NewInput().
				Title("Tags").
				Value(&f.Tags).
				Placeholder("home, errands"),
		).Title("New Todo"),
	).WithShowHelp(false)

	f.Form.WithTheme(huh.ThemeDracula())
	return f
}

func (f *addForm) validateDue(s string) error {
	if dateparse.None(s) {
		return nil
	}
	_, err := dateparse.ParseFrom(s, f.now())
	return err
}

// action converts the form values into an AddTodo.
func (f *addForm) action() (store.AddTodo, error) {
	a := store.AddTodo{
		Text:     strings.TrimSpace(f.Text),
		Priority: models.Priority(f.Priority),
		Category: f.Category,
		Tags:     splitList(f.Tags),
	}
	if !dateparse.None(f.Due) {
		due, err := dateparse.ParseFrom(f.Due, f.now())
		if err != nil {
			return a, err
		}
		a.DueDate = due
	}
	return a, nil
}

// splitList splits comma separated input, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
