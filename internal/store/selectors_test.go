package store

import (
	"testing"
	"time"

	"github.com/marcus/tick/internal/models"
)

func fixtureState() State {
	s := NewState()
	s.Todos = []models.Todo{
		{ID: "a", Text: "Buy milk", Priority: models.PriorityLow, Category: "Shopping",
			CreatedAt: testNow.Add(-3 * time.Hour), DueDate: "2026-02-20", Tags: []string{"groceries"}},
		{ID: "b", Text: "file taxes", Priority: models.PriorityHigh, Category: "Work",
			CreatedAt: testNow.Add(-2 * time.Hour), DueDate: "2026-02-10", Tags: []string{}},
		{ID: "c", Text: "Call mom", Priority: models.PriorityMedium, Category: "Personal",
			CreatedAt: testNow.Add(-1 * time.Hour), Completed: true, DueDate: "2026-02-01", Tags: []string{"family"}},
		{ID: "d", Text: "react course", Priority: models.PriorityHigh, Category: "Work",
			CreatedAt: testNow, Tags: []string{"learning"}},
	}
	return s
}

func ids(todos []models.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.ID
	}
	return out
}

func assertIDs(t *testing.T, label string, got []models.Todo, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Errorf("%s: ids = %v, want %v", label, g, want)
		return
	}
	for i := range want {
		if g[i] != want[i] {
			t.Errorf("%s: ids = %v, want %v", label, g, want)
			return
		}
	}
}

func TestVisibleFilters(t *testing.T) {
	tests := []struct {
		filter models.Filter
		want   []string
	}{
		{models.FilterAll, []string{"d", "c", "b", "a"}},
		{models.FilterActive, []string{"d", "b", "a"}},
		{models.FilterCompleted, []string{"c"}},
		{models.FilterOverdue, []string{"b"}},
	}
	for _, tt := range tests {
		s := fixtureState()
		s.Filter = tt.filter
		assertIDs(t, string(tt.filter), VisibleTodos(s, testNow), tt.want...)
	}
}

func TestVisibleSorts(t *testing.T) {
	tests := []struct {
		sort models.SortKey
		want []string
	}{
		{models.SortCreated, []string{"d", "c", "b", "a"}},
		{models.SortPriority, []string{"b", "d", "c", "a"}},
		{models.SortDueDate, []string{"c", "b", "a", "d"}},
		{models.SortAlpha, []string{"a", "c", "b", "d"}},
	}
	for _, tt := range tests {
		s := fixtureState()
		s.SortBy = tt.sort
		assertIDs(t, string(tt.sort), VisibleTodos(s, testNow), tt.want...)
	}
}

func TestVisibleCategoryAndSearch(t *testing.T) {
	s := fixtureState()
	s.SelectedCategory = "Work"
	assertIDs(t, "category", VisibleTodos(s, testNow), "d", "b")

	s = fixtureState()
	s.SearchQuery = "MILK"
	assertIDs(t, "search text", VisibleTodos(s, testNow), "a")

	s.SearchQuery = "famil"
	assertIDs(t, "search tag", VisibleTodos(s, testNow), "c")

	s.SearchQuery = "   "
	assertIDs(t, "blank search", VisibleTodos(s, testNow), "d", "c", "b", "a")
}

func TestVisibleFuzzySearch(t *testing.T) {
	s := fixtureState()
	s.FuzzySearch = true
	s.SearchQuery = "rct"
	got := VisibleTodos(s, testNow)
	if len(got) == 0 || got[0].ID != "d" {
		t.Errorf("fuzzy rct = %v, want d first", ids(got))
	}

	s.FuzzySearch = false
	assertIDs(t, "substring rct", VisibleTodos(s, testNow))
}

func TestVisibleDoesNotReorderState(t *testing.T) {
	s := fixtureState()
	s.SortBy = models.SortAlpha
	VisibleTodos(s, testNow)
	assertIDs(t, "state order", s.Todos, "a", "b", "c", "d")
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats(fixtureState(), testNow)
	if st.Total != 4 || st.Completed != 1 || st.Active != 3 {
		t.Errorf("counts = %+v", st)
	}
	if st.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", st.Overdue)
	}
	if st.HighPriority != 2 {
		t.Errorf("HighPriority = %d, want 2", st.HighPriority)
	}

	byName := map[string]models.CategoryStat{}
	for _, c := range st.Categories {
		byName[c.Name] = c
	}
	if w := byName["Work"]; w.Total != 2 || w.Completed != 0 {
		t.Errorf("Work = %+v", w)
	}
	if p := byName["Personal"]; p.Total != 1 || p.Completed != 1 {
		t.Errorf("Personal = %+v", p)
	}
	if h := byName["Health"]; h.Total != 0 {
		t.Errorf("Health = %+v", h)
	}
}

func TestSelectorMemoizes(t *testing.T) {
	sel := NewSelector()
	env := seqEnv()
	s := mustReduce(t, NewState(), AddTodo{Text: "a"}, env)

	first := sel.Visible(s, testNow)
	sel.Visible(s, testNow.Add(time.Minute))
	if sel.Computes() != 1 {
		t.Fatalf("Computes() = %d after repeated Visible, want 1", sel.Computes())
	}
	if len(first) != 1 {
		t.Fatalf("Visible = %v", ids(first))
	}

	sel.Stats(s, testNow)
	sel.Stats(s, testNow)
	if sel.Computes() != 2 {
		t.Fatalf("Computes() = %d after repeated Stats, want 2", sel.Computes())
	}

	// A view-only change invalidates Visible but not Stats.
	s = mustReduce(t, s, SetFilter{Filter: models.FilterCompleted}, env)
	if got := sel.Visible(s, testNow); len(got) != 0 {
		t.Errorf("Visible after filter = %v", ids(got))
	}
	sel.Stats(s, testNow)
	if sel.Computes() != 3 {
		t.Errorf("Computes() = %d, want 3", sel.Computes())
	}

	// A new day invalidates both, since overdue depends on it.
	tomorrow := testNow.Add(24 * time.Hour)
	sel.Visible(s, tomorrow)
	sel.Stats(s, tomorrow)
	if sel.Computes() != 5 {
		t.Errorf("Computes() = %d, want 5", sel.Computes())
	}
}
