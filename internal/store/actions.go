package store

import (
	"fmt"
	"strings"

	"github.com/marcus/tick/internal/dateparse"
	"github.com/marcus/tick/internal/models"
)

// Slot identifies a persisted part of the state.
type Slot uint8

const (
	SlotTodos Slot = 1 << iota
	SlotCategories
)

// Snapshot keys for each slot.
const (
	TodosKey      = "todos"
	CategoriesKey = "categories"
)

// Action is a request to change the state. The set of actions is closed;
// see Reduce.
type Action interface {
	// Name identifies the action in logs.
	Name() string
	// Persists reports which slots the action may change.
	Persists() Slot
	// apply mutates next, which is already a private copy of the slots
	// named by Persists. It reports whether anything changed.
	apply(next *State, env Env) (bool, error)
}

// Mutates reports whether a changes the todo list itself.
func Mutates(a Action) bool {
	return a.Persists()&SlotTodos != 0
}

// AddTodo appends a new todo. Empty priority means medium; empty
// category means the first known category.
type AddTodo struct {
	Text     string
	Priority models.Priority
	Category string
	DueDate  string
	Tags     []string
}

func (AddTodo) Name() string   { return "add_todo" }
func (AddTodo) Persists() Slot { return SlotTodos | SlotCategories }

func (a AddTodo) apply(next *State, env Env) (bool, error) {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return false, ErrEmptyText
	}
	priority := a.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.IsValidPriority(priority) {
		return false, ErrInvalidPriority
	}
	if err := validateDate(a.DueDate); err != nil {
		return false, err
	}

	category := strings.TrimSpace(a.Category)
	if category == "" {
		category = defaultCategory(next.Categories)
	}
	if !next.HasCategory(category) {
		next.Categories = append(next.Categories, category)
	}

	tags := []string{}
	for _, tag := range a.Tags {
		tag = strings.TrimSpace(tag)
		if tag != "" && !contains(tags, tag) {
			tags = append(tags, tag)
		}
	}

	next.Todos = append(next.Todos, models.Todo{
		ID:        env.NewID(),
		Text:      text,
		CreatedAt: env.Now,
		Priority:  priority,
		Category:  category,
		DueDate:   a.DueDate,
		Tags:      tags,
	})
	return true, nil
}

// ToggleTodo flips a todo's completed flag.
type ToggleTodo struct{ ID string }

func (ToggleTodo) Name() string   { return "toggle_todo" }
func (ToggleTodo) Persists() Slot { return SlotTodos }

func (a ToggleTodo) apply(next *State, _ Env) (bool, error) {
	return updateTodo(next, a.ID, func(t *models.Todo) bool {
		t.Completed = !t.Completed
		return true
	})
}

// SetCompleted sets a todo's completed flag explicitly.
type SetCompleted struct {
	ID        string
	Completed bool
}

func (SetCompleted) Name() string   { return "set_completed" }
func (SetCompleted) Persists() Slot { return SlotTodos }

func (a SetCompleted) apply(next *State, _ Env) (bool, error) {
	return updateTodo(next, a.ID, func(t *models.Todo) bool {
		if t.Completed == a.Completed {
			return false
		}
		t.Completed = a.Completed
		return true
	})
}

// DeleteTodo removes a todo.
type DeleteTodo struct{ ID string }

func (DeleteTodo) Name() string   { return "delete_todo" }
func (DeleteTodo) Persists() Slot { return SlotTodos }

func (a DeleteTodo) apply(next *State, _ Env) (bool, error) {
	i := next.index(a.ID)
	if i < 0 {
		return false, ErrNotFound
	}
	next.Todos = append(next.Todos[:i], next.Todos[i+1:]...)
	return true, nil
}

// EditTodo replaces a todo's text.
type EditTodo struct {
	ID   string
	Text string
}

func (EditTodo) Name() string   { return "edit_todo" }
func (EditTodo) Persists() Slot { return SlotTodos }

func (a EditTodo) apply(next *State, _ Env) (bool, error) {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return false, ErrEmptyText
	}
	return updateTodo(next, a.ID, func(t *models.Todo) bool {
		if t.Text == text {
			return false
		}
		t.Text = text
		return true
	})
}

// SetPriority changes a todo's priority.
type SetPriority struct {
	ID       string
	Priority models.Priority
}

func (SetPriority) Name() string   { return "set_priority" }
func (SetPriority) Persists() Slot { return SlotTodos }

func (a SetPriority) apply(next *State, _ Env) (bool, error) {
	if !models.IsValidPriority(a.Priority) {
		return false, ErrInvalidPriority
	}
	return updateTodo(next, a.ID, func(t *models.Todo) bool {
		if t.Priority == a.Priority {
			return false
		}
		t.Priority = a.Priority
		return true
	})
}

// SetDueDate sets or, with an empty date, clears a todo's due date.
type SetDueDate struct {
	ID      string
	DueDate string
}

func (SetDueDate) Name() string   { return "set_due_date" }
func (SetDueDate) Persists() Slot { return SlotTodos }

func (a SetDueDate) apply(next *State, _ Env) (bool, error) {
	if err := validateDate(a.DueDate); err != nil {
		return false, err
	}
	return updateTodo(next, a.ID, func(t *models.Todo) bool {
		if t.DueDate == a.DueDate {
			return false
		}
		t.DueDate = a.DueDate
		return true
	})
}

// AddTag attaches a tag. Existing tags are left alone.
type AddTag struct {
	ID  string
	Tag string
}

func (AddTag) Name() string   { return "add_tag" }
func (AddTag) Persists() Slot { return SlotTodos }

func (a AddTag) apply(next *State, _ Env) (bool, error) {
	tag := strings.TrimSpace(a.Tag)
	if tag == "" {
		return false, ErrEmptyText
	}
	return updateTodo(next, a.ID, func(t *models.Todo) bool {
		if t.HasTag(tag) {
			return false
		}
		t.Tags = append(t.Tags, tag)
		return true
	})
}

// RemoveTag detaches a tag.
type RemoveTag struct {
	ID  string
	Tag string
}

func (RemoveTag) Name() string   { return "remove_tag" }
func (RemoveTag) Persists() Slot { return SlotTodos }

func (a RemoveTag) apply(next *State, _ Env) (bool, error) {
	return updateTodo(next, a.ID, func(t *models.Todo) bool {
		kept := t.Tags[:0]
		for _, tag := range t.Tags {
			if tag != a.Tag {
				kept = append(kept, tag)
			}
		}
		changed := len(kept) != len(t.Tags)
		t.Tags = kept
		return changed
	})
}

// ClearCompleted removes every completed todo.
type ClearCompleted struct{}

func (ClearCompleted) Name() string   { return "clear_completed" }
func (ClearCompleted) Persists() Slot { return SlotTodos }

func (ClearCompleted) apply(next *State, _ Env) (bool, error) {
	kept := make([]models.Todo, 0, len(next.Todos))
	for _, t := range next.Todos {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	changed := len(kept) != len(next.Todos)
	next.Todos = kept
	return changed, nil
}

// ReplaceTodos swaps in a whole todo list, as on import. Each todo is
// checked like AddTodo; missing IDs are generated and repeated IDs are
// rejected.
type ReplaceTodos struct{ Todos []models.Todo }

func (ReplaceTodos) Name() string   { return "replace_todos" }
func (ReplaceTodos) Persists() Slot { return SlotTodos | SlotCategories }

func (a ReplaceTodos) apply(next *State, env Env) (bool, error) {
	todos := make([]models.Todo, 0, len(a.Todos))
	seen := make(map[string]bool, len(a.Todos))
	for i, t := range a.Todos {
		t = t.Clone()
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			return false, fmt.Errorf("todo %d: %w", i+1, ErrEmptyText)
		}
		if t.ID == "" {
			t.ID = env.NewID()
		}
		if seen[t.ID] {
			return false, fmt.Errorf("todo %d: %w %q", i+1, ErrDuplicateID, t.ID)
		}
		seen[t.ID] = true

		if t.Priority == "" {
			t.Priority = models.PriorityMedium
		}
		t.Priority = models.NormalizePriority(string(t.Priority))
		if !models.IsValidPriority(t.Priority) {
			return false, fmt.Errorf("todo %d: %w %q", i+1, ErrInvalidPriority, t.Priority)
		}
		if err := validateDate(t.DueDate); err != nil {
			return false, fmt.Errorf("todo %d: %w", i+1, err)
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		if t.Category != "" && !next.HasCategory(t.Category) {
			next.Categories = append(next.Categories, t.Category)
		}
		todos = append(todos, t)
	}
	next.Todos = todos
	return true, nil
}

// SetFilter selects which completion states are visible.
type SetFilter struct{ Filter models.Filter }

func (SetFilter) Name() string   { return "set_filter" }
func (SetFilter) Persists() Slot { return 0 }

func (a SetFilter) apply(next *State, _ Env) (bool, error) {
	if !models.IsValidFilter(a.Filter) {
		return false, ErrInvalidFilter
	}
	if next.Filter == a.Filter {
		return false, nil
	}
	next.Filter = a.Filter
	return true, nil
}

// SetSortBy selects the visible ordering.
type SetSortBy struct{ SortBy models.SortKey }

func (SetSortBy) Name() string   { return "set_sort_by" }
func (SetSortBy) Persists() Slot { return 0 }

func (a SetSortBy) apply(next *State, _ Env) (bool, error) {
	if !models.IsValidSortKey(a.SortBy) {
		return false, ErrInvalidSort
	}
	if next.SortBy == a.SortBy {
		return false, nil
	}
	next.SortBy = a.SortBy
	return true, nil
}

// SetSearchQuery sets the text search applied to the visible list.
type SetSearchQuery struct{ Query string }

func (SetSearchQuery) Name() string   { return "set_search_query" }
func (SetSearchQuery) Persists() Slot { return 0 }

func (a SetSearchQuery) apply(next *State, _ Env) (bool, error) {
	if next.SearchQuery == a.Query {
		return false, nil
	}
	next.SearchQuery = a.Query
	return true, nil
}

// SetFuzzySearch switches between substring and fuzzy matching.
type SetFuzzySearch struct{ Enabled bool }

func (SetFuzzySearch) Name() string   { return "set_fuzzy_search" }
func (SetFuzzySearch) Persists() Slot { return 0 }

func (a SetFuzzySearch) apply(next *State, _ Env) (bool, error) {
	if next.FuzzySearch == a.Enabled {
		return false, nil
	}
	next.FuzzySearch = a.Enabled
	return true, nil
}

// SetSelectedCategory narrows the visible list to one category, or to
// every category with models.AllCategories.
type SetSelectedCategory struct{ Category string }

func (SetSelectedCategory) Name() string   { return "set_selected_category" }
func (SetSelectedCategory) Persists() Slot { return 0 }

func (a SetSelectedCategory) apply(next *State, _ Env) (bool, error) {
	category := a.Category
	if category == "" {
		category = models.AllCategories
	}
	if next.SelectedCategory == category {
		return false, nil
	}
	next.SelectedCategory = category
	return true, nil
}

// AddCategory registers a category name. Existing names are left alone.
type AddCategory struct{ Category string }

func (AddCategory) Name() string   { return "add_category" }
func (AddCategory) Persists() Slot { return SlotCategories }

func (a AddCategory) apply(next *State, _ Env) (bool, error) {
	name := strings.TrimSpace(a.Category)
	if name == "" {
		return false, ErrEmptyText
	}
	if next.HasCategory(name) {
		return false, nil
	}
	next.Categories = append(next.Categories, name)
	return true, nil
}

// updateTodo applies fn to the todo with id inside next's private copy.
func updateTodo(next *State, id string, fn func(*models.Todo) bool) (bool, error) {
	i := next.index(id)
	if i < 0 {
		return false, ErrNotFound
	}
	return fn(&next.Todos[i]), nil
}

func validateDate(date string) error {
	if date == "" {
		return nil
	}
	if !dateparse.Valid(date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

func defaultCategory(categories []string) string {
	if len(categories) > 0 {
		return categories[0]
	}
	return models.DefaultCategories[0]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
