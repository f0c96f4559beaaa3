package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/tick/internal/clock"
	"github.com/marcus/tick/internal/debounce"
	"github.com/marcus/tick/internal/models"
	"github.com/marcus/tick/internal/output"
	"github.com/marcus/tick/internal/store"
	"github.com/marcus/tick/internal/toggle"
)

// statusDuration is how long a status message stays visible
const statusDuration = 3 * time.Second

const defaultSearchDelay = 300 * time.Millisecond

// chromeLines is the number of rows the list view spends outside the list.
const chromeLines = 8

var (
	filterCycle = []models.Filter{models.FilterAll, models.FilterActive, models.FilterCompleted, models.FilterOverdue}
	sortCycle   = []models.SortKey{models.SortCreated, models.SortDueDate, models.SortPriority, models.SortAlpha}
	prioCycle   = []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
)

// TodoOptions configures the todo list view.
type TodoOptions struct {
	Clock           clock.Clock
	SearchDelay     time.Duration
	DefaultCategory string
}

// TodoModel is the full-screen todo list: list, debounced search, add
// form and stats overlay.
type TodoModel struct {
	store *store.Store
	sel   *store.Selector
	clock clock.Clock
	state store.State

	events    events
	debounced *debounce.Value[string]
	search    textinput.Model
	searching bool

	form            *addForm
	defaultCategory string

	keys      todoKeys
	help      help.Model
	showHelp  toggle.Toggle
	showStats toggle.Toggle

	cursor    int
	width     int
	height    int
	status    string
	statusErr bool
}

// NewTodoModel builds the view over an already loaded store.
func NewTodoModel(st *store.Store, opts TodoOptions) TodoModel {
	if opts.Clock == nil {
		opts.Clock = clock.Real
	}
	if opts.SearchDelay <= 0 {
		opts.SearchDelay = defaultSearchDelay
	}
	ev := newEvents()
	state := st.State()

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search text and tags"
	search.CharLimit = 200
	search.SetValue(state.SearchQuery)

	return TodoModel{
		store:           st,
		sel:             store.NewSelector(),
		clock:           opts.Clock,
		state:           state,
		events:          ev,
		search:          search,
		defaultCategory: opts.DefaultCategory,
		debounced: debounce.New(state.SearchQuery, opts.SearchDelay, func(q string) {
			ev.send(searchCommittedMsg{Query: q})
		}, debounce.WithClock(opts.Clock)),
		keys:   newTodoKeys(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
}

// Init starts listening for debounced search commits.
func (m TodoModel) Init() tea.Cmd {
	return m.events.listen()
}

// Close cancels any pending search commit. Safe to call more than once.
func (m TodoModel) Close() {
	m.debounced.Close()
}

// State returns the store state the view last rendered.
func (m TodoModel) State() store.State {
	return m.state
}

// Update handles messages
func (m TodoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case searchCommittedMsg:
		cmd := m.dispatch(store.SetSearchQuery{Query: msg.Query})
		return m, tea.Batch(cmd, m.events.listen())

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		if m.searching {
			return m.updateSearch(k)
		}
		return m.handleKey(k)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m TodoModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form.Form = f
	}

	switch m.form.Form.State {
	case huh.StateCompleted:
		a, err := m.form.action()
		m.form = nil
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		return m, m.dispatch(a)
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m TodoModel) updateSearch(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Close):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.debounced.Cancel()
		return m, m.dispatch(store.SetSearchQuery{Query: ""})
	case key.Matches(k, m.keys.AcceptQuery):
		m.searching = false
		m.search.Blur()
		m.debounced.Flush()
		return m, nil
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(k)
	if v := m.search.Value(); v != prev {
		m.debounced.Set(v)
	}
	return m, cmd
}

func (m TodoModel) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showStats.On() {
		if key.Matches(k, m.keys.Close, m.keys.Stats) {
			m.showStats.Set(false)
			return m, nil
		}
		if !key.Matches(k, m.keys.Quit) {
			return m, nil
		}
	}

	switch {
	case key.Matches(k, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(k, m.keys.Help):
		m.help.ShowAll = m.showHelp.Toggle()

	case key.Matches(k, m.keys.Stats):
		m.showStats.Set(true)

	case key.Matches(k, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(k, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}

	case key.Matches(k, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			return m, m.dispatch(store.ToggleTodo{ID: t.ID})
		}

	case key.Matches(k, m.keys.Delete):
		if t, ok := m.selected(); ok {
			cmd := m.dispatch(store.DeleteTodo{ID: t.ID})
			return m, tea.Batch(cmd, m.setStatus("Deleted "+t.Text, false))
		}

	case key.Matches(k, m.keys.Priority):
		if t, ok := m.selected(); ok {
			return m, m.dispatch(store.SetPriority{ID: t.ID, Priority: nextOf(prioCycle, t.Priority)})
		}

	case key.Matches(k, m.keys.Add):
		m.form = newAddForm(m.state.Categories, m.defaultCategory, m.clock.Now)
		return m, m.form.Form.Init()

	case key.Matches(k, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.state.SearchQuery)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(k, m.keys.Close):
		if m.state.SearchQuery != "" {
			m.search.SetValue("")
			m.debounced.Cancel()
			return m, m.dispatch(store.SetSearchQuery{Query: ""})
		}

	case key.Matches(k, m.keys.Filter):
		return m, m.dispatch(store.SetFilter{Filter: nextOf(filterCycle, m.state.Filter)})

	case key.Matches(k, m.keys.Sort):
		return m, m.dispatch(store.SetSortBy{SortBy: nextOf(sortCycle, m.state.SortBy)})

	case key.Matches(k, m.keys.Category):
		cats := append([]string{models.AllCategories}, m.state.Categories...)
		return m, m.dispatch(store.SetSelectedCategory{Category: nextOf(cats, m.state.SelectedCategory)})

	case key.Matches(k, m.keys.Fuzzy):
		return m, m.dispatch(store.SetFuzzySearch{Enabled: !m.state.FuzzySearch})

	case key.Matches(k, m.keys.Clear):
		n := m.sel.Stats(m.state, m.clock.Now()).Completed
		cmd := m.dispatch(store.ClearCompleted{})
		return m, tea.Batch(cmd, m.setStatus(fmt.Sprintf("Cleared %s", output.Plural(n, "todo")), false))
	}
	return m, nil
}

// dispatch applies a to the store and refreshes the cached state.
func (m *TodoModel) dispatch(a store.Action) tea.Cmd {
	s, err := m.store.Dispatch(a)
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.state = s
	m.clampCursor()
	return nil
}

func (m *TodoModel) setStatus(msg string, isErr bool) tea.Cmd {
	m.status = msg
	m.statusErr = isErr
	return tea.Tick(statusDuration, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m TodoModel) visible() []models.Todo {
	return m.sel.Visible(m.state, m.clock.Now())
}

func (m TodoModel) selected() (models.Todo, bool) {
	v := m.visible()
	if m.cursor < 0 || m.cursor >= len(v) {
		return models.Todo{}, false
	}
	return v[m.cursor], true
}

func (m *TodoModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// nextOf returns the element after cur in cycle, wrapping around.
func nextOf[T comparable](cycle []T, cur T) T {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// View renders the model
func (m TodoModel) View() string {
	if m.form != nil {
		return modalStyle.Render(m.form.Form.View()) + "\n" + subtleStyle.Render("esc cancel")
	}

	now := m.clock.Now()
	stats := m.sel.Stats(m.state, now)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("tick"))
	sb.WriteString(" ")
	sb.WriteString(subtleStyle.Render(fmt.Sprintf("%d active · %d done · %d overdue",
		stats.Active, stats.Completed, stats.Overdue)))
	sb.WriteString("\n")
	sb.WriteString(m.renderChips())
	sb.WriteString("\n")

	if m.searching {
		sb.WriteString(m.search.View())
	} else if m.state.SearchQuery != "" {
		sb.WriteString(subtleStyle.Render("search: ") + m.state.SearchQuery)
	}
	sb.WriteString("\n\n")

	if m.showStats.On() {
		sb.WriteString(m.renderStats(stats))
	} else {
		sb.WriteString(m.renderList(now))
	}

	sb.WriteString("\n")
	if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		sb.WriteString(style.Render(m.status))
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m TodoModel) renderChips() string {
	chip := func(label, value string, active bool) string {
		if active {
			return label + ": " + activeChipStyle.Render(value)
		}
		return label + ": " + value
	}
	cat := m.state.SelectedCategory
	if cat == "" {
		cat = models.AllCategories
	}
	parts := []string{
		chip("filter", string(m.state.Filter), m.state.Filter != models.FilterAll),
		chip("sort", string(m.state.SortBy), m.state.SortBy != models.SortCreated),
		chip("category", cat, cat != models.AllCategories),
	}
	if m.state.FuzzySearch {
		parts = append(parts, activeChipStyle.Render("fuzzy"))
	}
	return subtleStyle.Render(strings.Join(parts, "  "))
}

func (m TodoModel) renderList(now time.Time) string {
	todos := m.visible()
	if len(todos) == 0 {
		if len(m.state.Todos) == 0 {
			return subtleStyle.Render("No todos yet. Press a to add one.")
		}
		return subtleStyle.Render("Nothing matches the current filters.")
	}

	rows := max(m.height-chromeLines, 3)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(todos))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := m.renderRow(todos[i], now)
		line = ansi.Truncate(line, max(m.width-2, 10), "…")
		if i == m.cursor {
			line = selectedRowStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m TodoModel) renderRow(t models.Todo, now time.Time) string {
	check := "[ ]"
	text := t.Text
	if t.Completed {
		check = successStyle.Render("[x]")
		text = doneStyle.Render(text)
	}
	parts := []string{check, priorityMark(t.Priority), text, subtleStyle.Render(t.Category)}
	if due := output.FormatDue(t, now); due != "" {
		parts = append(parts, due)
	}
	if len(t.Tags) > 0 {
		parts = append(parts, tagStyle.Render("#"+strings.Join(t.Tags, " #")))
	}
	return strings.Join(parts, " ")
}

func (m TodoModel) renderStats(s models.Stats) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Statistics"))
	sb.WriteString("\n\n")
	row := func(label string, v int) {
		sb.WriteString(fmt.Sprintf("%-15s %d\n", label, v))
	}
	row("Total", s.Total)
	row("Active", s.Active)
	row("Completed", s.Completed)
	row("Overdue", s.Overdue)
	row("High priority", s.HighPriority)
	sb.WriteString(fmt.Sprintf("%-15s %s %.0f%%\n", "Progress", output.ProgressBar(s.CompletionRate(), 20), s.CompletionRate()))

	if len(s.Categories) > 0 {
		sb.WriteString("\n")
		sb.WriteString(titleStyle.Render("By category"))
		sb.WriteString("\n")
		for _, c := range s.Categories {
			sb.WriteString(fmt.Sprintf("%-15s %d/%d\n", c.Name, c.Completed, c.Total))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, panelStyle.Render(strings.TrimRight(sb.String(), "\n")),
		subtleStyle.Render("esc close"))
}
