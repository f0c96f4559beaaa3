package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/tick/internal/clock"
	"github.com/marcus/tick/internal/debounce"
	"github.com/marcus/tick/internal/models"
	"github.com/marcus/tick/internal/output"
	"github.com/marcus/tick/internal/store"
)

// maxResults caps the rows the picker shows.
const maxResults = 10

// SearchOptions configures the search picker.
type SearchOptions struct {
	Clock clock.Clock
	Delay time.Duration
	Fuzzy bool
	Query string
}

// SearchModel is a live todo search. Each keystroke restarts the delay;
// the list is recomputed only once the query has settled.
type SearchModel struct {
	base  store.State
	sel   *store.Selector
	clock clock.Clock

	events    events
	debounced *debounce.Value[string]
	input     textinput.Model

	query   string
	results []models.Todo
	commits int
	cursor  int
	chosen  *models.Todo

	keys  searchKeys
	help  help.Model
	width int
}

// NewSearchModel searches the todos of state.
func NewSearchModel(state store.State, opts SearchOptions) SearchModel {
	if opts.Clock == nil {
		opts.Clock = clock.Real
	}
	if opts.Delay <= 0 {
		opts.Delay = defaultSearchDelay
	}

	env := store.Env{Now: opts.Clock.Now()}
	base, _ := store.Reduce(state, store.SetFilter{Filter: models.FilterAll}, env)
	base, _ = store.Reduce(base, store.SetSelectedCategory{Category: models.AllCategories}, env)
	base, _ = store.Reduce(base, store.SetFuzzySearch{Enabled: opts.Fuzzy}, env)

	ev := newEvents()
	input := textinput.New()
	input.Prompt = "search: "
	input.Placeholder = "type to search"
	input.CharLimit = 200
	input.SetValue(opts.Query)
	input.Focus()

	m := SearchModel{
		base:   base,
		sel:    store.NewSelector(),
		clock:  opts.Clock,
		events: ev,
		debounced: debounce.New(opts.Query, opts.Delay, func(q string) {
			ev.send(searchCommittedMsg{Query: q})
		}, debounce.WithClock(opts.Clock)),
		input: input,
		keys:  newSearchKeys(),
		help:  help.New(),
		width: 80,
	}
	m.runQuery(opts.Query)
	return m
}

// Init starts the cursor blink and the event listener.
func (m SearchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.events.listen())
}

// Close cancels a pending query.
func (m SearchModel) Close() {
	m.debounced.Close()
}

// Chosen returns the todo picked with enter.
func (m SearchModel) Chosen() (models.Todo, bool) {
	if m.chosen == nil {
		return models.Todo{}, false
	}
	return *m.chosen, true
}

// Query returns the last committed query.
func (m SearchModel) Query() string { return m.query }

// Results returns the matches for the committed query.
func (m SearchModel) Results() []models.Todo { return m.results }

// Commits counts the queries that settled and ran.
func (m SearchModel) Commits() int { return m.commits }

// Update handles messages
func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-12, 10)
		return m, nil

	case searchCommittedMsg:
		m.commits++
		m.runQuery(msg.Query)
		return m, m.events.listen()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Choose):
			// Commit what is typed so the choice matches the visible query.
			if m.debounced.Flush() {
				m.commits++
				m.runQuery(m.debounced.Value())
			}
			if m.cursor < len(m.results) {
				t := m.results[m.cursor]
				m.chosen = &t
			}
			m.Close()
			return m, tea.Quit
		}

		prev := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != prev {
			m.debounced.Set(v)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *SearchModel) runQuery(q string) {
	m.query = q
	next, _ := store.Reduce(m.base, store.SetSearchQuery{Query: q}, store.Env{Now: m.clock.Now()})
	if strings.TrimSpace(q) == "" {
		m.results = nil
	} else {
		m.results = m.sel.Visible(next, m.clock.Now())
	}
	if m.cursor >= len(m.results) {
		m.cursor = max(len(m.results)-1, 0)
	}
}

// View renders the model
func (m SearchModel) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Search"))
	if m.base.FuzzySearch {
		sb.WriteString(subtleStyle.Render("  fuzzy"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")

	_, pending := m.debounced.Pending()
	switch {
	case pending:
		sb.WriteString(subtleStyle.Render("Searching..."))
	case strings.TrimSpace(m.query) == "":
		sb.WriteString(subtleStyle.Render("Start typing to search"))
	default:
		sb.WriteString(subtleStyle.Render(fmt.Sprintf("%s for %q", output.Plural(len(m.results), "result"), m.query)))
	}
	sb.WriteString(subtleStyle.Render(fmt.Sprintf("  (searches run: %d)", m.commits)))
	sb.WriteString("\n\n")

	now := m.clock.Now()
	for i, t := range m.results {
		if i == maxResults {
			sb.WriteString(subtleStyle.Render(fmt.Sprintf("  … %d more\n", len(m.results)-maxResults)))
			break
		}
		line := ansi.Truncate(output.FormatTodoShort(t, now), max(m.width-4, 20), "…")
		if i == m.cursor {
			sb.WriteString(selectedRowStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}
