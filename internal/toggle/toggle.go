// Package toggle is a tiny on/off switch shared by the terminal UIs for
// dialogs, help overlays and mode flags.
package toggle

// Toggle is a boolean that flips. The zero value is off.
type Toggle struct {
	on bool
}

// New returns a Toggle in the given state.
func New(on bool) Toggle {
	return Toggle{on: on}
}

// On reports whether the toggle is on.
func (t Toggle) On() bool { return t.on }

// Toggle flips the state and returns the new value.
func (t *Toggle) Toggle() bool {
	t.on = !t.on
	return t.on
}

// Set forces the state.
func (t *Toggle) Set(on bool) { t.on = on }
