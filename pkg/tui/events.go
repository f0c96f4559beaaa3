package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// eventBufferSize bounds callbacks queued between renders.
const eventBufferSize = 32

// events carries messages from timer and debounce callbacks, which run
// on their own goroutines, into the bubbletea loop.
type events chan tea.Msg

func newEvents() events {
	return make(events, eventBufferSize)
}

// offer queues msg without blocking the callback goroutine, dropping it
// when the buffer is full. Only for messages a later one supersedes.
func (e events) offer(msg tea.Msg) {
	select {
	case e <- msg:
	default:
		slog.Debug("tui: event dropped", "msg", msg)
	}
}

// send queues msg without blocking the callback goroutine. When the
// buffer is full the message is handed to a goroutine that waits for
// room, so it is never lost.
func (e events) send(msg tea.Msg) {
	select {
	case e <- msg:
	default:
		slog.Debug("tui: event buffer full, delivering later", "msg", msg)
		go func() { e <- msg }()
	}
}

// listen returns a command that waits for the next event. Update must
// issue it again after handling each event.
func (e events) listen() tea.Cmd {
	return func() tea.Msg {
		return <-e
	}
}

// searchCommittedMsg is sent when the debounced search query settles.
type searchCommittedMsg struct {
	Query string
}

// clearStatusMsg clears the status line.
type clearStatusMsg struct{}
