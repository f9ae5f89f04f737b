// Package display formats aircraft tracks as fixed-width table rows and
// draws them on a terminal.
package display

import "fmt"

// Backend is a character-cell terminal the dashboard draws on.
// Row 0 is the header; aircraft rows start at 1.
//
// Rows past the bottom of the terminal may be written; backends clip them.
type Backend interface {
	// Init takes over the terminal.
	Init() error

	// Dimensions returns the current terminal size in cells.
	Dimensions() (width, height int)

	// WriteRow draws text at the start of row y, emphasized (bold) if requested.
	WriteRow(y int, text string, emphasize bool)

	// ClearRow blanks the first width cells of row y.
	ClearRow(y, width int)

	// Refresh makes everything drawn since the last refresh visible.
	Refresh()

	// Teardown restores the terminal. Callers must call it exactly once
	// after a successful Init.
	Teardown()
}

// Backend names accepted by New.
const (
	BackendScreen = "screen"
	BackendANSI   = "ansi"
)

// New creates the named backend. onQuit is called when the user asks to quit
// from the keyboard, on backends that read it.
func New(name string, onQuit func()) (Backend, error) {
	switch name {
	case "", BackendScreen:
		return NewScreenBackend(onQuit), nil
	case BackendANSI:
		return NewANSIBackend(nil), nil
	default:
		return nil, fmt.Errorf("unknown display backend %q (expected %q or %q)", name, BackendScreen, BackendANSI)
	}
}
