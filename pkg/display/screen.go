package display

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ScreenBackend draws on a full-screen tcell terminal. It reads the keyboard
// itself, since the terminal is in raw mode and Ctrl-C does not raise SIGINT.
type ScreenBackend struct {
	screen tcell.Screen
	onQuit func()

	quitOnce sync.Once
	done     chan struct{}
}

// NewScreenBackend creates a backend on the process terminal. onQuit may be nil.
func NewScreenBackend(onQuit func()) *ScreenBackend {
	return &ScreenBackend{onQuit: onQuit}
}

// Init creates and initializes the tcell screen and starts the event loop.
func (b *ScreenBackend) Init() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorReset).
		Foreground(tcell.ColorReset))
	screen.HideCursor()
	screen.Clear()

	b.screen = screen
	b.done = make(chan struct{})
	go b.pollEvents()
	return nil
}

// pollEvents handles quit keys and resizes until the screen is finalized.
func (b *ScreenBackend) pollEvents() {
	defer close(b.done)
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
				b.quit()
			}
		case *tcell.EventResize:
			b.screen.Sync()
		}
	}
}

func (b *ScreenBackend) quit() {
	if b.onQuit == nil {
		return
	}
	b.quitOnce.Do(b.onQuit)
}

// Dimensions returns the screen size.
func (b *ScreenBackend) Dimensions() (int, int) {
	return b.screen.Size()
}

// WriteRow prints text on row y. Style tags in text are escaped.
func (b *ScreenBackend) WriteRow(y int, text string, emphasize bool) {
	width, height := b.screen.Size()
	if y >= height {
		return
	}
	text = tview.Escape(text)
	if emphasize {
		text = "[::b]" + text
	}
	tview.Print(b.screen, text, 0, y, width, tview.AlignLeft, tcell.ColorDefault)
}

// ClearRow blanks row y.
func (b *ScreenBackend) ClearRow(y, width int) {
	for x := 0; x < width; x++ {
		b.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
}

// Refresh shows pending changes.
func (b *ScreenBackend) Refresh() {
	b.screen.Show()
}

// Teardown finalizes the screen, restoring the terminal, and waits for the
// event loop to exit.
func (b *ScreenBackend) Teardown() {
	if b.screen == nil {
		return
	}
	b.screen.Fini()
	<-b.done
}
