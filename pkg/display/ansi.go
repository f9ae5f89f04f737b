package display

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Default size reported when the output is not a terminal.
const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

const (
	ansiAltScreenOn  = "\x1b[?1049h"
	ansiAltScreenOff = "\x1b[?1049l"
	ansiHideCursor   = "\x1b[?25l"
	ansiShowCursor   = "\x1b[?25h"
	ansiClearScreen  = "\x1b[2J"
)

// ANSIBackend draws with plain ANSI escape sequences on any writer.
// Output is buffered until Refresh. It does not read the keyboard; the
// process relies on SIGINT to stop.
type ANSIBackend struct {
	out  io.Writer
	size func() (int, int, error)
	bold lipgloss.Style
	buf  bytes.Buffer
}

// NewANSIBackend creates a backend writing to f, or to stdout if f is nil.
func NewANSIBackend(f *os.File) *ANSIBackend {
	if f == nil {
		f = os.Stdout
	}
	fd := int(f.Fd())
	return newANSIBackend(f, func() (int, int, error) { return term.GetSize(fd) })
}

func newANSIBackend(out io.Writer, size func() (int, int, error)) *ANSIBackend {
	return &ANSIBackend{
		out:  out,
		size: size,
		bold: lipgloss.NewStyle().Bold(true),
	}
}

// Init switches to the alternate screen and hides the cursor.
func (b *ANSIBackend) Init() error {
	if _, err := io.WriteString(b.out, ansiAltScreenOn+ansiHideCursor+ansiClearScreen); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return nil
}

// Dimensions returns the terminal size, or 80x24 if it cannot be read.
func (b *ANSIBackend) Dimensions() (int, int) {
	w, h, err := b.size()
	if err != nil || w <= 0 || h <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return w, h
}

// WriteRow positions the cursor at row y and writes text. Rows below the
// bottom of the terminal are skipped.
func (b *ANSIBackend) WriteRow(y int, text string, emphasize bool) {
	if !b.visible(y) {
		return
	}
	b.moveTo(y)
	if emphasize {
		text = b.bold.Render(text)
	}
	b.buf.WriteString(text)
}

// ClearRow overwrites row y with blanks.
func (b *ANSIBackend) ClearRow(y, width int) {
	if !b.visible(y) {
		return
	}
	b.moveTo(y)
	b.buf.WriteString(strings.Repeat(" ", width))
}

func (b *ANSIBackend) visible(y int) bool {
	_, h := b.Dimensions()
	return y >= 0 && y < h
}

func (b *ANSIBackend) moveTo(y int) {
	fmt.Fprintf(&b.buf, "\x1b[%d;1H", y+1)
}

// Refresh flushes buffered output.
func (b *ANSIBackend) Refresh() {
	_, _ = b.out.Write(b.buf.Bytes())
	b.buf.Reset()
}

// Teardown flushes pending output and restores the cursor and main screen.
func (b *ANSIBackend) Teardown() {
	b.Refresh()
	_, _ = io.WriteString(b.out, ansiShowCursor+ansiAltScreenOff)
}
