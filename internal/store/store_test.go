package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/marcus/tick/internal/clock"
	"github.com/marcus/tick/internal/models"
)

// memSlots is an in-memory Snapshotter that counts writes.
type memSlots struct {
	data   map[string]string
	puts   map[string]int
	putErr error
}

func newMemSlots() *memSlots {
	return &memSlots{data: map[string]string{}, puts: map[string]int{}}
}

func (m *memSlots) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memSlots) Put(key, value string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	m.puts[key]++
	return nil
}

func newTestStore(slots Snapshotter) *Store {
	n := 0
	return New(slots,
		WithClock(clock.NewFake(testNow)),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("t%d", n)
		}),
	)
}

func TestDispatchPersistsMutations(t *testing.T) {
	slots := newMemSlots()
	st := newTestStore(slots)

	if _, err := st.Dispatch(AddTodo{Text: "write tests"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if slots.puts[TodosKey] != 1 {
		t.Fatalf("todos writes = %d, want 1", slots.puts[TodosKey])
	}

	var saved []models.Todo
	if err := json.Unmarshal([]byte(slots.data[TodosKey]), &saved); err != nil {
		t.Fatalf("snapshot not JSON: %v", err)
	}
	if len(saved) != 1 || saved[0].Text != "write tests" {
		t.Errorf("snapshot = %+v", saved)
	}

	st.Dispatch(ToggleTodo{ID: "t1"})
	st.Dispatch(DeleteTodo{ID: "t1"})
	if slots.puts[TodosKey] != 3 {
		t.Errorf("todos writes = %d, want 3", slots.puts[TodosKey])
	}
}

func TestDispatchViewActionsNotPersisted(t *testing.T) {
	slots := newMemSlots()
	st := newTestStore(slots)

	st.Dispatch(SetFilter{Filter: models.FilterCompleted})
	st.Dispatch(SetSearchQuery{Query: "milk"})
	st.Dispatch(SetSortBy{SortBy: models.SortPriority})
	st.Dispatch(SetSelectedCategory{Category: "Work"})

	if len(slots.puts) != 0 {
		t.Errorf("view actions wrote snapshot: %v", slots.puts)
	}
	s := st.State()
	if s.Filter != models.FilterCompleted || s.SearchQuery != "milk" ||
		s.SortBy != models.SortPriority || s.SelectedCategory != "Work" {
		t.Errorf("state = %+v", s)
	}
}

func TestDispatchNoopSkipsWrite(t *testing.T) {
	slots := newMemSlots()
	st := newTestStore(slots)
	st.Dispatch(AddTodo{Text: "a", Tags: []string{"x"}})
	st.Dispatch(AddTag{ID: "t1", Tag: "x"})
	if slots.puts[TodosKey] != 1 {
		t.Errorf("todos writes = %d, want 1", slots.puts[TodosKey])
	}
}

func TestDispatchErrorKeepsState(t *testing.T) {
	st := newTestStore(newMemSlots())
	before := st.State()
	_, err := st.Dispatch(ToggleTodo{ID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if st.State().Rev != before.Rev {
		t.Error("state changed after failed dispatch")
	}
}

func TestDispatchWriteFailureKeepsMemoryState(t *testing.T) {
	slots := newMemSlots()
	slots.putErr = errors.New("disk full")
	st := newTestStore(slots)

	s, err := st.Dispatch(AddTodo{Text: "survives"})
	if err != nil {
		t.Fatalf("Dispatch returned %v; write failures are best effort", err)
	}
	if len(s.Todos) != 1 || len(st.State().Todos) != 1 {
		t.Error("in-memory state lost after failed write")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	slots := newMemSlots()
	st := newTestStore(slots)
	st.Dispatch(AddTodo{Text: "a", Category: "Garden", DueDate: "2026-03-01"})
	st.Dispatch(AddTodo{Text: "b"})
	st.Dispatch(ToggleTodo{ID: "t2"})

	reloaded := newTestStore(slots)
	s := reloaded.Load()
	if len(s.Todos) != 2 {
		t.Fatalf("reloaded %d todos, want 2", len(s.Todos))
	}
	if s.Todos[0].DueDate != "2026-03-01" || !s.Todos[1].Completed {
		t.Errorf("reloaded todos = %+v", s.Todos)
	}
	if !s.HasCategory("Garden") {
		t.Errorf("reloaded categories = %v", s.Categories)
	}
	if !s.Todos[0].CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v", s.Todos[0].CreatedAt)
	}
}

func TestLoadMalformedSnapshotFallsBackToEmpty(t *testing.T) {
	slots := newMemSlots()
	slots.data[TodosKey] = "{not json"
	slots.data[CategoriesKey] = "[]"

	s := newTestStore(slots).Load()
	if s.Todos == nil || len(s.Todos) != 0 {
		t.Errorf("Todos = %#v, want empty", s.Todos)
	}
	if len(s.Categories) != len(models.DefaultCategories) {
		t.Errorf("Categories = %v, want defaults", s.Categories)
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	s := newTestStore(newMemSlots()).Load()
	if len(s.Todos) != 0 || s.Filter != models.FilterAll {
		t.Errorf("state = %+v", s)
	}
}

func TestNilSnapshotter(t *testing.T) {
	st := newTestStore(nil)
	st.Load()
	if _, err := st.Dispatch(AddTodo{Text: "ephemeral"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(st.State().Todos) != 1 {
		t.Error("todo not kept in memory")
	}
}

func TestSubscribe(t *testing.T) {
	st := newTestStore(newMemSlots())
	var seen []int
	unsubscribe := st.Subscribe(func(s State) { seen = append(seen, len(s.Todos)) })

	st.Dispatch(AddTodo{Text: "a"})
	st.Dispatch(ToggleTodo{ID: "missing"})
	st.Dispatch(AddTodo{Text: "b"})
	unsubscribe()
	st.Dispatch(AddTodo{Text: "c"})

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("notifications = %v, want [1 2]", seen)
	}
}

func TestStoreUsesClockForCreatedAt(t *testing.T) {
	c := clock.NewFake(testNow)
	st := New(newMemSlots(), WithClock(c))
	st.Dispatch(AddTodo{Text: "first"})
	c.Advance(time.Hour)
	s, _ := st.Dispatch(AddTodo{Text: "second"})
	if !s.Todos[1].CreatedAt.Equal(testNow.Add(time.Hour)) {
		t.Errorf("CreatedAt = %v", s.Todos[1].CreatedAt)
	}
	if s.Todos[0].ID == s.Todos[1].ID {
		t.Error("default ID generator produced duplicate IDs")
	}
}
