package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/tick/internal/clock"
	"github.com/marcus/tick/internal/models"
	"github.com/marcus/tick/internal/pomodoro"
	"github.com/marcus/tick/internal/store"
)

var start = time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// newTestStore returns an unpersisted store holding the given todos.
func newTestStore(t *testing.T, fake *clock.Fake, texts ...string) *store.Store {
	t.Helper()
	n := 0
	st := store.New(nil,
		store.WithClock(fake),
		store.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%02d", n)
		}),
	)
	for _, text := range texts {
		if _, err := st.Dispatch(store.AddTodo{Text: text}); err != nil {
			t.Fatalf("add %q: %v", text, err)
		}
	}
	return st
}

func updateTodo(t *testing.T, m TodoModel, msg tea.Msg) TodoModel {
	t.Helper()
	next, _ := m.Update(msg)
	tm, ok := next.(TodoModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return tm
}

func TestTodoSearchCommitsOnce(t *testing.T) {
	fake := clock.NewFake(start)
	st := newTestStore(t, fake, "buy milk", "write report", "milk the cow")
	m := NewTodoModel(st, TodoOptions{Clock: fake, SearchDelay: 300 * time.Millisecond})
	defer m.Close()

	m = updateTodo(t, m, runes("/"))
	if !m.searching {
		t.Fatal("expected search mode after /")
	}
	for _, r := range "milk" {
		m = updateTodo(t, m, runes(string(r)))
		fake.Advance(50 * time.Millisecond)
	}
	if len(m.events) != 0 {
		t.Fatalf("commit before the query settled: %d events", len(m.events))
	}
	if got := m.State().SearchQuery; got != "" {
		t.Fatalf("query applied early: %q", got)
	}

	fake.Advance(300 * time.Millisecond)
	if len(m.events) != 1 {
		t.Fatalf("expected exactly one commit, got %d", len(m.events))
	}
	m = updateTodo(t, m, <-m.events)

	if got := m.State().SearchQuery; got != "milk" {
		t.Errorf("SearchQuery = %q, want milk", got)
	}
	if got := len(m.visible()); got != 2 {
		t.Errorf("visible = %d, want 2", got)
	}

	// esc leaves search mode and clears the query.
	m = updateTodo(t, m, keyEsc)
	if m.searching || m.State().SearchQuery != "" {
		t.Errorf("esc: searching=%v query=%q", m.searching, m.State().SearchQuery)
	}
}

func TestTodoSearchEnterFlushes(t *testing.T) {
	fake := clock.NewFake(start)
	st := newTestStore(t, fake, "buy milk", "write report")
	m := NewTodoModel(st, TodoOptions{Clock: fake})
	defer m.Close()

	m = updateTodo(t, m, runes("/"))
	m = updateTodo(t, m, runes("r"))
	m = updateTodo(t, m, runes("e"))
	m = updateTodo(t, m, keyEnter)

	if m.searching {
		t.Fatal("enter should leave search mode")
	}
	if len(m.events) != 1 {
		t.Fatalf("expected the flushed commit to be queued, got %d", len(m.events))
	}
	m = updateTodo(t, m, <-m.events)
	if got := m.State().SearchQuery; got != "re" {
		t.Errorf("SearchQuery = %q, want re", got)
	}

	fake.Advance(time.Second)
	if len(m.events) != 0 {
		t.Errorf("flushed query committed again")
	}
}

func TestTodoKeys(t *testing.T) {
	fake := clock.NewFake(start)
	st := newTestStore(t, fake, "one", "two", "three")
	m := NewTodoModel(st, TodoOptions{Clock: fake})
	defer m.Close()

	first := m.visible()[0]
	m = updateTodo(t, m, keySpace)
	if got, _ := m.State().Find(first.ID); !got.Completed {
		t.Errorf("space did not complete %s", first.ID)
	}

	m = updateTodo(t, m, runes("f"))
	if m.State().Filter != models.FilterActive {
		t.Errorf("filter = %s, want active", m.State().Filter)
	}
	if got := len(m.visible()); got != 2 {
		t.Errorf("active todos = %d, want 2", got)
	}

	m = updateTodo(t, m, runes("s"))
	if m.State().SortBy != models.SortDueDate {
		t.Errorf("sort = %s, want due", m.State().SortBy)
	}

	m = updateTodo(t, m, runes("p"))
	sel, _ := m.selected()
	if sel.Priority != models.PriorityHigh {
		t.Errorf("priority = %s, want high", sel.Priority)
	}

	m = updateTodo(t, m, runes("d"))
	if got := len(m.State().Todos); got != 2 {
		t.Errorf("todos after delete = %d, want 2", got)
	}
	if !strings.HasPrefix(m.status, "Deleted ") {
		t.Errorf("status = %q", m.status)
	}

	m = updateTodo(t, m, runes("C"))
	if got := len(m.State().Todos); got != 1 {
		t.Errorf("todos after clear = %d, want 1", got)
	}

	m = updateTodo(t, m, runes("i"))
	if !m.showStats.On() {
		t.Fatal("stats overlay not shown")
	}
	if !strings.Contains(m.View(), "Statistics") {
		t.Error("stats overlay missing from view")
	}
	m = updateTodo(t, m, keyEsc)
	if m.showStats.On() {
		t.Error("esc did not close stats")
	}
}

func TestTodoCursorClamp(t *testing.T) {
	fake := clock.NewFake(start)
	st := newTestStore(t, fake, "a", "b")
	m := NewTodoModel(st, TodoOptions{Clock: fake})
	defer m.Close()

	m = updateTodo(t, m, runes("j"))
	m = updateTodo(t, m, runes("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	m = updateTodo(t, m, runes("d"))
	if m.cursor != 0 {
		t.Errorf("cursor after delete = %d, want 0", m.cursor)
	}
	m = updateTodo(t, m, runes("d"))
	if _, ok := m.selected(); ok {
		t.Error("selection on empty list")
	}
	if !strings.Contains(m.View(), "No todos") {
		t.Errorf("empty view:\n%s", m.View())
	}
}

func TestAddFormAction(t *testing.T) {
	now := func() time.Time { return start }

	tests := []struct {
		name    string
		due     string
		tags    string
		wantDue string
		wantErr bool
	}{
		{name: "relative due", due: "tomorrow", tags: "home, errands,,", wantDue: "2026-02-10"},
		{name: "no due", due: "none", wantDue: ""},
		{name: "bad due", due: "someday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAddForm(models.DefaultCategories, "Work", now)
			f.Text = "  water plants "
			f.Due = tt.due
			f.Tags = tt.tags

			a, err := f.action()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("action: %v", err)
			}
			if a.Text != "water plants" || a.Category != "Work" || a.Priority != models.PriorityMedium {
				t.Errorf("action = %+v", a)
			}
			if a.DueDate != tt.wantDue {
				t.Errorf("due = %q, want %q", a.DueDate, tt.wantDue)
			}
			if tt.tags != "" && strings.Join(a.Tags, "|") != "home|errands" {
				t.Errorf("tags = %v", a.Tags)
			}
		})
	}
}

func TestAddFormValidateDue(t *testing.T) {
	f := newAddForm(models.DefaultCategories, "", func() time.Time { return start })
	if err := f.validateDue(""); err != nil {
		t.Errorf("empty due: %v", err)
	}
	if err := f.validateDue("+3d"); err != nil {
		t.Errorf("+3d: %v", err)
	}
	if err := f.validateDue("2026-13-01"); err == nil {
		t.Error("expected error for invalid date")
	}
}

func newTestPomodoro(fake *clock.Fake) PomodoroModel {
	d := pomodoro.Durations{Work: 3 * time.Second, ShortBreak: time.Second, LongBreak: 2 * time.Second, LongBreakEvery: 2}
	return NewPomodoroModel(func(opts ...pomodoro.Option) *pomodoro.Session {
		base := []pomodoro.Option{pomodoro.WithClock(fake), pomodoro.WithDurations(d)}
		return pomodoro.New(append(base, opts...)...)
	})
}

func updatePomodoro(t *testing.T, m PomodoroModel, msg tea.Msg) PomodoroModel {
	t.Helper()
	next, _ := m.Update(msg)
	pm, ok := next.(PomodoroModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm
}

// drainPomodoro feeds every queued session event to the model.
func drainPomodoro(t *testing.T, m PomodoroModel) PomodoroModel {
	t.Helper()
	for len(m.events) > 0 {
		m = updatePomodoro(t, m, <-m.events)
	}
	return m
}

func TestPomodoroCountdown(t *testing.T) {
	fake := clock.NewFake(start)
	m := newTestPomodoro(fake)
	defer m.Close()

	if got := m.Status().Clock(); got != "00:03" {
		t.Fatalf("initial clock = %s", got)
	}
	m = updatePomodoro(t, m, keySpace)
	if !m.Status().Running {
		t.Fatal("space did not start the session")
	}

	fake.Advance(time.Second)
	m = drainPomodoro(t, m)
	if got := m.Status().Clock(); got != "00:02" {
		t.Errorf("clock after 1s = %s, want 00:02", got)
	}

	fake.Advance(2 * time.Second)
	m = drainPomodoro(t, m)
	st := m.Status()
	if st.Mode != pomodoro.ShortBreak || st.Running || st.Elapsed != 0 {
		t.Errorf("after completion: %+v", st)
	}
	if m.last == nil || m.last.From != pomodoro.Work {
		t.Fatalf("completion not recorded: %+v", m.last)
	}
	if !strings.Contains(m.View(), "Time for a break") {
		t.Errorf("completion message missing:\n%s", m.View())
	}

	// Starting the break clears the notice.
	m = updatePomodoro(t, m, keySpace)
	if m.last != nil {
		t.Error("notice kept after restart")
	}
}

func TestPomodoroKeys(t *testing.T) {
	fake := clock.NewFake(start)
	m := newTestPomodoro(fake)
	defer m.Close()

	m = updatePomodoro(t, m, runes("l"))
	if m.Status().Mode != pomodoro.LongBreak {
		t.Errorf("mode = %s, want long", m.Status().Mode)
	}
	m = updatePomodoro(t, m, runes("w"))
	if st := m.Status(); st.Mode != pomodoro.Work || st.Cycles != 1 {
		t.Errorf("back to work: %+v", st)
	}
	m = updatePomodoro(t, m, runes("r"))
	if got := m.Status().Cycles; got != 0 {
		t.Errorf("reset in work left cycles = %d", got)
	}

	m = updatePomodoro(t, m, runes("c"))
	if st := m.Status(); !st.Custom || st.Duration != 25*60 {
		t.Errorf("custom: %+v", st)
	}
	m = updatePomodoro(t, m, runes("-"))
	if got := m.Status().Duration; got != 20*60 {
		t.Errorf("duration after - = %d", got)
	}
	m = updatePomodoro(t, m, runes("+"))
	if got := m.Status().Duration; got != 25*60 {
		t.Errorf("duration after + = %d", got)
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if fake.Pending() != 0 {
		t.Errorf("timer still scheduled after quit: %d", fake.Pending())
	}
}

func updateSearch(t *testing.T, m SearchModel, msg tea.Msg) SearchModel {
	t.Helper()
	next, _ := m.Update(msg)
	sm, ok := next.(SearchModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm
}

func TestSearchPickerDebounce(t *testing.T) {
	fake := clock.NewFake(start)
	st := newTestStore(t, fake, "buy milk", "write report", "read book")
	m := NewSearchModel(st.State(), SearchOptions{Clock: fake, Delay: 300 * time.Millisecond})
	defer m.Close()

	for _, r := range "rep" {
		m = updateSearch(t, m, runes(string(r)))
		fake.Advance(50 * time.Millisecond)
	}
	if !strings.Contains(m.View(), "Searching...") {
		t.Errorf("pending query not shown:\n%s", m.View())
	}

	fake.Advance(300 * time.Millisecond)
	if len(m.events) != 1 {
		t.Fatalf("commits queued = %d, want 1", len(m.events))
	}
	m = updateSearch(t, m, <-m.events)

	if m.Commits() != 1 || m.Query() != "rep" {
		t.Errorf("commits=%d query=%q", m.Commits(), m.Query())
	}
	if len(m.Results()) != 1 || m.Results()[0].Text != "write report" {
		t.Fatalf("results = %+v", m.Results())
	}

	next, cmd := m.Update(keyEnter)
	m = next.(SearchModel)
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("enter did not quit")
	}
	got, ok := m.Chosen()
	if !ok || got.Text != "write report" {
		t.Errorf("chosen = %+v, %v", got, ok)
	}
}

func TestSearchPickerEnterBeforeSettle(t *testing.T) {
	fake := clock.NewFake(start)
	st := newTestStore(t, fake, "buy milk", "read book")
	m := NewSearchModel(st.State(), SearchOptions{Clock: fake})
	defer m.Close()

	m = updateSearch(t, m, runes("b"))
	m = updateSearch(t, m, runes("o"))
	m = updateSearch(t, m, runes("o"))
	m = updateSearch(t, m, keyEnter)

	if m.Commits() != 1 {
		t.Errorf("commits = %d, want 1", m.Commits())
	}
	got, ok := m.Chosen()
	if !ok || got.Text != "read book" {
		t.Errorf("chosen = %+v, %v", got, ok)
	}
}

func TestSearchPickerFuzzy(t *testing.T) {
	fake := clock.NewFake(start)
	st := newTestStore(t, fake, "write report", "buy milk")
	m := NewSearchModel(st.State(), SearchOptions{Clock: fake, Fuzzy: true, Query: "wrt"})
	defer m.Close()

	if len(m.Results()) != 1 || m.Results()[0].Text != "write report" {
		t.Errorf("fuzzy results = %+v", m.Results())
	}
	if m.Commits() != 0 {
		t.Errorf("initial query counted as a commit")
	}
}

func TestEventsKeepCompletionWhenFull(t *testing.T) {
	ev := newEvents()
	for i := 0; i <= eventBufferSize; i++ {
		ev.offer(sessionTickMsg{})
	}
	if len(ev) != eventBufferSize {
		t.Fatalf("queued = %d, want %d", len(ev), eventBufferSize)
	}

	ev.send(sessionDoneMsg{Completion: pomodoro.Completion{From: pomodoro.Work, To: pomodoro.ShortBreak}})

	for i := 0; i < eventBufferSize; i++ {
		if _, ok := (<-ev).(sessionTickMsg); !ok {
			t.Fatalf("event %d is not a tick", i)
		}
	}
	select {
	case msg := <-ev:
		done, ok := msg.(sessionDoneMsg)
		if !ok || done.Completion.To != pomodoro.ShortBreak {
			t.Fatalf("got %#v, want the completion", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("completion lost when the buffer was full")
	}
}
