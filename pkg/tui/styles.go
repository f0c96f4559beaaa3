package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/tick/internal/models"
	"github.com/marcus/tick/internal/pomodoro"
)

var (
	// Base colors
	primaryColor = lipgloss.Color("212")
	mutedColor   = lipgloss.Color("241")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("214")
	errorColor   = lipgloss.Color("196")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	titleStyle       = lipgloss.NewStyle().Bold(true)
	subtleStyle      = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle       = lipgloss.NewStyle().Foreground(errorColor)
	successStyle     = lipgloss.NewStyle().Foreground(successColor)
	doneStyle        = lipgloss.NewStyle().Foreground(mutedColor).Strikethrough(true)
	tagStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Foreground(lipgloss.Color("255"))
	activeChipStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	clockStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Padding(1, 0)

	priorityStyles = map[models.Priority]lipgloss.Style{
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		models.PriorityMedium: lipgloss.NewStyle().Foreground(warningColor),
		models.PriorityLow:    lipgloss.NewStyle().Foreground(successColor),
	}

	modeColors = map[pomodoro.Mode]lipgloss.Color{
		pomodoro.Work:       errorColor,
		pomodoro.ShortBreak: successColor,
		pomodoro.LongBreak:  lipgloss.Color("33"),
	}
)

func priorityMark(p models.Priority) string {
	mark := map[models.Priority]string{
		models.PriorityHigh:   "!!!",
		models.PriorityMedium: "!! ",
		models.PriorityLow:    "!  ",
	}[p]
	if mark == "" {
		mark = "   "
	}
	if style, ok := priorityStyles[p]; ok {
		return style.Render(mark)
	}
	return mark
}
