package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/marcus/tick/internal/models"
	"github.com/sahilm/fuzzy"
)

// Selector derives the visible list and the stats from a State, caching
// each result until its inputs change. Visible depends on every field of
// the state (keyed by Rev); Stats only on the data (keyed by DataRev).
// Both also depend on the current day because of overdue checks.
type Selector struct {
	mu sync.Mutex

	visibleKey memoKey
	visible    []models.Todo

	statsKey memoKey
	stats    models.Stats

	computes int
}

type memoKey struct {
	rev uint64
	day string
}

// NewSelector returns an empty selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Visible returns the filtered, searched and sorted todos. The result is
// shared between calls with the same inputs and must not be modified.
func (sel *Selector) Visible(s State, now time.Time) []models.Todo {
	key := memoKey{rev: s.Rev, day: now.Format(models.DateLayout)}
	sel.mu.Lock()
	defer sel.mu.Unlock()
	if sel.visible != nil && sel.visibleKey == key {
		return sel.visible
	}
	sel.computes++
	sel.visible = VisibleTodos(s, now)
	sel.visibleKey = key
	return sel.visible
}

// Stats returns the list summary.
func (sel *Selector) Stats(s State, now time.Time) models.Stats {
	key := memoKey{rev: s.DataRev, day: now.Format(models.DateLayout)}
	sel.mu.Lock()
	defer sel.mu.Unlock()
	if sel.statsKey == key && sel.statsKey.rev != 0 {
		return sel.stats
	}
	sel.computes++
	sel.stats = ComputeStats(s, now)
	sel.statsKey = key
	return sel.stats
}

// Computes reports how many times a derived value was recomputed.
func (sel *Selector) Computes() int {
	sel.mu.Lock()
	defer sel.mu.Unlock()
	return sel.computes
}

// VisibleTodos applies the status filter, category filter, search and
// sort without caching.
func VisibleTodos(s State, now time.Time) []models.Todo {
	out := make([]models.Todo, 0, len(s.Todos))
	for _, t := range s.Todos {
		if !matchesFilter(t, s.Filter, now) {
			continue
		}
		if s.SelectedCategory != "" && s.SelectedCategory != models.AllCategories && t.Category != s.SelectedCategory {
			continue
		}
		out = append(out, t)
	}

	sortTodos(out, s.SortBy)

	query := strings.TrimSpace(s.SearchQuery)
	if query == "" {
		return out
	}
	if s.FuzzySearch {
		return fuzzyFilter(out, query)
	}
	return substringFilter(out, query)
}

// ComputeStats counts todos overall and per category.
func ComputeStats(s State, now time.Time) models.Stats {
	stats := models.Stats{Total: len(s.Todos)}
	for _, t := range s.Todos {
		if t.Completed {
			stats.Completed++
		} else if t.Priority == models.PriorityHigh {
			stats.HighPriority++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}
	stats.Active = stats.Total - stats.Completed

	stats.Categories = make([]models.CategoryStat, 0, len(s.Categories))
	for _, name := range s.Categories {
		cs := models.CategoryStat{Name: name}
		for _, t := range s.Todos {
			if t.Category != name {
				continue
			}
			cs.Total++
			if t.Completed {
				cs.Completed++
			}
		}
		stats.Categories = append(stats.Categories, cs)
	}
	return stats
}

func matchesFilter(t models.Todo, f models.Filter, now time.Time) bool {
	switch f {
	case models.FilterActive:
		return !t.Completed
	case models.FilterCompleted:
		return t.Completed
	case models.FilterOverdue:
		return t.IsOverdue(now)
	default:
		return true
	}
}

func sortTodos(todos []models.Todo, by models.SortKey) {
	sort.SliceStable(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		switch by {
		case models.SortPriority:
			return models.PriorityRank(a.Priority) > models.PriorityRank(b.Priority)
		case models.SortDueDate:
			if a.DueDate == "" || b.DueDate == "" {
				return a.DueDate != "" && b.DueDate == ""
			}
			return a.DueDate < b.DueDate
		case models.SortAlpha:
			return strings.ToLower(a.Text) < strings.ToLower(b.Text)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

func substringFilter(todos []models.Todo, query string) []models.Todo {
	q := strings.ToLower(query)
	out := todos[:0]
	for _, t := range todos {
		if strings.Contains(strings.ToLower(t.Text), q) || tagContains(t.Tags, q) {
			out = append(out, t)
		}
	}
	return out
}

func tagContains(tags []string, q string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// searchSource exposes todo text plus tags to the fuzzy matcher.
type searchSource []models.Todo

func (s searchSource) String(i int) string {
	if len(s[i].Tags) == 0 {
		return s[i].Text
	}
	return s[i].Text + " " + strings.Join(s[i].Tags, " ")
}

func (s searchSource) Len() int { return len(s) }

// fuzzyFilter keeps fuzzy matches ordered best first; ties keep the
// sorted order.
func fuzzyFilter(todos []models.Todo, query string) []models.Todo {
	matches := fuzzy.FindFrom(query, searchSource(todos))
	out := make([]models.Todo, 0, len(matches))
	for _, m := range matches {
		out = append(out, todos[m.Index])
	}
	return out
}
