package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"

	"github.com/marcus/tick/internal/output"
	"github.com/marcus/tick/internal/pomodoro"
	"github.com/marcus/tick/internal/toggle"
)

const pomodoroTips = `## Tips

- Work for 25 minutes, then take a 5 minute break.
- Every fourth break is a longer 15 minute one.
- Reset during work starts the cycle count over.`

const tipsWidth = 40

// sessionTickMsg reports a counted second.
type sessionTickMsg struct {
	Status pomodoro.Status
}

// sessionDoneMsg reports a session that ran out.
type sessionDoneMsg struct {
	Completion pomodoro.Completion
}

// PomodoroModel drives a pomodoro session from the keyboard.
type PomodoroModel struct {
	session *pomodoro.Session
	events  events

	status   pomodoro.Status
	last     *pomodoro.Completion
	progress progress.Model
	tips     string

	keys     timerKeys
	help     help.Model
	showHelp toggle.Toggle
	width    int
}

// NewPomodoroModel builds a session through build, passing the tick and
// completion callbacks that feed the view.
func NewPomodoroModel(build func(opts ...pomodoro.Option) *pomodoro.Session) PomodoroModel {
	ev := newEvents()
	s := build(
		pomodoro.OnTick(func(st pomodoro.Status) { ev.offer(sessionTickMsg{Status: st}) }),
		pomodoro.OnComplete(func(c pomodoro.Completion) { ev.send(sessionDoneMsg{Completion: c}) }),
	)

	tips, err := output.RenderMarkdown(pomodoroTips, tipsWidth)
	if err != nil {
		tips = pomodoroTips
	}

	return PomodoroModel{
		session:  s,
		events:   ev,
		status:   s.Status(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		tips:     tips,
		keys:     newTimerKeys(),
		help:     help.New(),
		width:    80,
	}
}

// Init starts listening for session events.
func (m PomodoroModel) Init() tea.Cmd {
	return m.events.listen()
}

// Close stops the session timer.
func (m PomodoroModel) Close() {
	m.session.Close()
}

// Status returns the last rendered session status.
func (m PomodoroModel) Status() pomodoro.Status {
	return m.status
}

// Update handles messages
func (m PomodoroModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-8, 10), 60)
		return m, nil

	case sessionTickMsg:
		m.status = msg.Status
		return m, m.events.listen()

	case sessionDoneMsg:
		c := msg.Completion
		m.last = &c
		m.status = m.session.Status()
		// Ring the terminal bell as the notification.
		return m, tea.Batch(tea.Printf("\a"), m.events.listen())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m PomodoroModel) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(k, m.keys.Help):
		m.help.ShowAll = m.showHelp.Toggle()
	case key.Matches(k, m.keys.StartPause):
		m.session.Toggle()
		m.last = nil
	case key.Matches(k, m.keys.Reset):
		m.session.Reset()
	case key.Matches(k, m.keys.Work):
		m.session.SetMode(pomodoro.Work)
	case key.Matches(k, m.keys.Short):
		m.session.SetMode(pomodoro.ShortBreak)
	case key.Matches(k, m.keys.Long):
		m.session.SetMode(pomodoro.LongBreak)
	case key.Matches(k, m.keys.Custom):
		m.session.ToggleCustom()
	case key.Matches(k, m.keys.More):
		m.session.SetCustomMinutes(m.status.Duration/60 + 5)
		m.session.UseCustom(true)
	case key.Matches(k, m.keys.Less):
		m.session.SetCustomMinutes(m.status.Duration/60 - 5)
		m.session.UseCustom(true)
	default:
		return m, nil
	}
	m.status = m.session.Status()
	return m, nil
}

// View renders the model
func (m PomodoroModel) View() string {
	st := m.status
	color, ok := modeColors[st.Mode]
	if !ok {
		color = primaryColor
	}
	badge := lipgloss.NewStyle().Foreground(color).Bold(true).Render(st.Mode.Label())

	var left strings.Builder
	left.WriteString(headerStyle.Render("Pomodoro"))
	left.WriteString("  ")
	left.WriteString(badge)
	left.WriteString(subtleStyle.Render(fmt.Sprintf("  cycles: %d", st.Cycles)))
	if st.Custom {
		left.WriteString(subtleStyle.Render(fmt.Sprintf("  custom %d min", st.Duration/60)))
	}
	left.WriteString("\n")
	left.WriteString(clockStyle.Render(st.Clock()))
	left.WriteString("\n")
	left.WriteString(m.progress.ViewAs(st.Progress()))
	left.WriteString("\n")

	switch {
	case m.last != nil:
		left.WriteString(successStyle.Render(m.last.Message()))
	case st.Running:
		left.WriteString(subtleStyle.Render(fmt.Sprintf("%.0f%% complete", st.Progress()*100)))
	case st.Elapsed > 0:
		left.WriteString(subtleStyle.Render("Paused"))
	default:
		left.WriteString(subtleStyle.Render("Ready to start"))
	}

	body := left.String()
	if m.width >= 100 {
		tips := cellbuf.Wrap(m.tips, tipsWidth, " ")
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "    ", panelStyle.Render(tips))
	}
	return body + "\n\n" + m.help.View(m.keys)
}
