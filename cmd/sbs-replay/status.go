package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type tickMsg time.Time

// logMsg carries a client event from the server into the view.
type logMsg string

const maxLogLines = 8

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// model is the replay status view.
type model struct {
	addr  string
	path  string
	rate  float64
	loop  bool
	stats *stats

	now   time.Time
	width int
	logs  []string
}

func newModel(addr string, srv *server) model {
	return model{
		addr:  addr,
		path:  srv.path,
		rate:  srv.rate,
		loop:  srv.loop,
		stats: srv.stats,
		now:   time.Now(),
		width: 80,
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	case logMsg:
		m.logs = append(m.logs, string(msg))
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	b.WriteString(headerStyle.Render("SBS-1 Replay"))
	b.WriteString("\n\n")

	rate := "unpaced"
	if m.rate > 0 {
		rate = fmt.Sprintf("%.1f lines/s", m.rate)
	}
	elapsed := m.now.Sub(m.stats.started).Truncate(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Listen", m.addr)
	row("Capture", m.path)
	row("Rate", rate)
	row("Loop", fmt.Sprintf("%v", m.loop))
	row("Clients", fmt.Sprintf("%d connected, %d total", m.stats.clients.Load(), m.stats.totalClients.Load()))
	row("Sent", fmt.Sprintf("%d lines", m.stats.lines.Load()))
	row("Uptime", elapsed.String())

	last, err := m.stats.last()
	width := m.width - 10
	if width < 20 {
		width = 20
	}
	row("Last", runewidth.Truncate(last, width, "…"))
	if err != nil {
		b.WriteString(errStyle.Render("Error: " + err.Error()))
		b.WriteString("\n")
	}

	if len(m.logs) > 0 {
		b.WriteString("\n")
		for _, l := range m.logs {
			b.WriteString(runewidth.Truncate(l, m.width, "…"))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("q: quit"))
	return b.String()
}
