package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ScanEvent reports one symbol that finished classification.
type ScanEvent struct {
	Symbol string
	Valid  bool
}

type scanModel struct {
	title   string
	total   int
	events  <-chan ScanEvent
	spinner spinner.Model
	prog    progress.Model
	done    int
	valid   int
	last    string
	width   int
	closed  bool
}

type eventMsg ScanEvent
type doneMsg struct{}

// NewScanProgress returns a Bubble Tea model that renders scan progress
// until events is closed.
func NewScanProgress(title string, total int, events <-chan ScanEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &scanModel{
		title:   title,
		total:   total,
		events:  events,
		spinner: sp,
		prog:    prog,
		width:   80,
	}
}

func (m *scanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(ScanEvent(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.closed = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *scanModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s %s", m.spinner.View(), m.title)
	if m.closed {
		header = "done: " + m.title
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")
	counts := fmt.Sprintf("  %d/%d symbols  %s  %s", m.done, m.total,
		builtinStyle.Render(fmt.Sprintf("%d builtin", m.valid)),
		otherStyle.Render(fmt.Sprintf("%d other", m.done-m.valid)))
	b.WriteString(counts)
	b.WriteString("\n")
	if m.last != "" && !m.closed {
		b.WriteString("  ")
		b.WriteString(Truncate(m.last, m.width-4))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.closed {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *scanModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *scanModel) applyEvent(ev ScanEvent) tea.Cmd {
	m.done++
	if ev.Valid {
		m.valid++
	}
	m.last = ev.Symbol
	if m.total <= 0 {
		return nil
	}
	return m.prog.SetPercent(float64(m.done) / float64(m.total))
}

var (
	builtinStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	otherStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)
