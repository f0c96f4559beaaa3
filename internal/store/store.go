package store

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/marcus/tick/internal/clock"
	"github.com/marcus/tick/internal/models"
)

// Snapshotter reads and writes string-keyed snapshot slots.
type Snapshotter interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp new todos.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator sets the function used to mint todo IDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Store owns the current State. Every dispatched action is reduced into a
// new State; actions that change persisted slots are snapshotted right
// away. Snapshot writes are best effort: failures are logged and the
// in-memory state stays authoritative.
type Store struct {
	mu      sync.Mutex
	state   State
	snap    Snapshotter
	clock   clock.Clock
	newID   func() string
	subs    map[int]func(State)
	nextSub int
}

// New returns a store holding the initial state. Call Load to restore
// the last snapshot.
func New(snap Snapshotter, opts ...Option) *Store {
	s := &Store{
		state: NewState(),
		snap:  snap,
		clock: clock.Real,
		newID: NewID,
		subs:  make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the state with the persisted snapshot. A missing or
// malformed slot falls back to its default.
func (s *Store) Load() State {
	state := NewState()
	if todos, ok := s.loadTodos(); ok {
		state.Todos = todos
	}
	if categories, ok := s.loadCategories(); ok {
		state.Categories = categories
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return state
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces a into the current state and returns the new state.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	prev := s.state
	next, err := Reduce(prev, a, Env{Now: s.clock.Now(), NewID: s.newID})
	if err != nil {
		s.mu.Unlock()
		slog.Debug("store: dispatch", "action", a.Name(), "err", err)
		return prev, err
	}
	if next.Rev == prev.Rev {
		s.mu.Unlock()
		return prev, nil
	}
	s.state = next
	s.persistLocked(a.Persists(), next)
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next, nil
}

// Subscribe registers fn to be called with every new state. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) persistLocked(slots Slot, state State) {
	if s.snap == nil {
		return
	}
	if slots&SlotTodos != 0 {
		s.put(TodosKey, state.Todos)
	}
	if slots&SlotCategories != 0 {
		s.put(CategoriesKey, state.Categories)
	}
}

func (s *Store) put(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("store: encode snapshot", "key", key, "err", err)
		return
	}
	if err := s.snap.Put(key, string(data)); err != nil {
		slog.Error("store: save snapshot", "key", key, "err", err)
	}
}

func (s *Store) loadTodos() ([]models.Todo, bool) {
	raw, ok := s.get(TodosKey)
	if !ok {
		return nil, false
	}
	var todos []models.Todo
	if err := json.Unmarshal([]byte(raw), &todos); err != nil {
		slog.Warn("store: malformed snapshot, starting empty", "key", TodosKey, "err", err)
		return nil, false
	}
	for i := range todos {
		if todos[i].Tags == nil {
			todos[i].Tags = []string{}
		}
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, true
}

func (s *Store) loadCategories() ([]string, bool) {
	raw, ok := s.get(CategoriesKey)
	if !ok {
		return nil, false
	}
	var categories []string
	if err := json.Unmarshal([]byte(raw), &categories); err != nil || len(categories) == 0 {
		slog.Warn("store: malformed snapshot, using defaults", "key", CategoriesKey, "err", err)
		return nil, false
	}
	return categories, true
}

func (s *Store) get(key string) (string, bool) {
	if s.snap == nil {
		return "", false
	}
	raw, ok, err := s.snap.Get(key)
	if err != nil {
		slog.Warn("store: read snapshot", "key", key, "err", err)
		return "", false
	}
	return raw, ok
}
