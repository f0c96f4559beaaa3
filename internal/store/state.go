// Package store holds the todo list state, the pure reducer that derives
// each new state from an action, and the Store that owns one state value
// and snapshots it to a key-value slot after every mutating action.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/marcus/tick/internal/models"
)

var (
	ErrNotFound        = errors.New("todo not found")
	ErrAmbiguousID     = errors.New("ambiguous todo id")
	ErrEmptyText       = errors.New("text is required")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrInvalidSort     = errors.New("invalid sort")
	ErrInvalidDate     = errors.New("invalid due date")
	ErrDuplicateID     = errors.New("duplicate todo id")
)

// revCounter hands out revisions that are unique across every State in
// the process, so memoized selectors can key on them safely.
var revCounter atomic.Uint64

func nextRev() uint64 { return revCounter.Add(1) }

// State is an immutable snapshot of the todo list and its view settings.
// Reduce never modifies a State in place; callers must treat the slices
// as read-only.
type State struct {
	Todos            []models.Todo
	Categories       []string
	Filter           models.Filter
	SortBy           models.SortKey
	SearchQuery      string
	FuzzySearch      bool
	SelectedCategory string

	// Rev changes on every successful reduction. DataRev changes only
	// when Todos or Categories change.
	Rev     uint64
	DataRev uint64
}

// NewState returns the initial state with default view settings.
func NewState() State {
	rev := nextRev()
	return State{
		Todos:            []models.Todo{},
		Categories:       append([]string(nil), models.DefaultCategories...),
		Filter:           models.FilterAll,
		SortBy:           models.SortCreated,
		SelectedCategory: models.AllCategories,
		Rev:              rev,
		DataRev:          rev,
	}
}

// Find returns the todo with the given ID.
func (s State) Find(id string) (models.Todo, bool) {
	if i := s.index(id); i >= 0 {
		return s.Todos[i], true
	}
	return models.Todo{}, false
}

// HasCategory reports whether name is a known category.
func (s State) HasCategory(name string) bool {
	for _, c := range s.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Resolve maps a full ID or a unique ID prefix to a todo ID.
func (s State) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrNotFound
	}
	if s.index(ref) >= 0 {
		return ref, nil
	}

	var match string
	for _, t := range s.Todos {
		if strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousID, ref)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return match, nil
}

func (s State) index(id string) int {
	for i := range s.Todos {
		if s.Todos[i].ID == id {
			return i
		}
	}
	return -1
}
