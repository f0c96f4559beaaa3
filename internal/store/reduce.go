package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/marcus/tick/internal/models"
)

// Env supplies the impure inputs a reduction may need.
type Env struct {
	Now   time.Time
	NewID func() string
}

// DefaultEnv uses the wall clock and random UUIDs.
func DefaultEnv() Env {
	return Env{Now: time.Now(), NewID: NewID}
}

// NewID returns a random todo ID.
func NewID() string {
	return uuid.NewString()
}

// Reduce returns the state that results from applying a to s. s itself is
// never modified. On error, or when the action changes nothing, s is
// returned as is.
func Reduce(s State, a Action, env Env) (State, error) {
	if env.NewID == nil {
		env.NewID = NewID
	}
	if env.Now.IsZero() {
		env.Now = time.Now()
	}

	slots := a.Persists()
	next := s
	if slots&SlotTodos != 0 {
		next.Todos = cloneTodos(s.Todos)
	}
	if slots&SlotCategories != 0 {
		next.Categories = append([]string(nil), s.Categories...)
	}

	changed, err := a.apply(&next, env)
	if err != nil || !changed {
		return s, err
	}

	next.Rev = nextRev()
	if slots != 0 {
		next.DataRev = next.Rev
	}
	return next, nil
}

func cloneTodos(todos []models.Todo) []models.Todo {
	out := make([]models.Todo, len(todos))
	for i, t := range todos {
		out[i] = t.Clone()
	}
	return out
}
