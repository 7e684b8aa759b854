package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/timelog/internal/model"
	"github.com/existflow/timelog/internal/timer"
)

// WatchModel is a compact always-on view of the running timer: project, task
// and a ticking elapsed readout, with a single key to stop.
type WatchModel struct {
	engine  *timer.Engine
	spinner spinner.Model

	rec *model.TimeRecord
	err error
}

type tickMsg time.Time

type currentMsg struct {
	rec *model.TimeRecord
	err error
}

// NewWatchModel creates the watch view over a timer engine
func NewWatchModel(engine *timer.Engine) WatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Primary)

	return WatchModel{
		engine:  engine,
		spinner: sp,
	}
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCurrent(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m WatchModel) loadCurrent() tea.Cmd {
	return func() tea.Msg {
		rec, err := m.engine.Current(context.Background())
		return currentMsg{rec: rec, err: err}
	}
}

func (m WatchModel) stopTimer() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.engine.Stop(context.Background()); err != nil {
			return currentMsg{err: err}
		}
		return currentMsg{}
	}
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Stop):
			return m, m.stopTimer()
		case key.Matches(msg, keys.Refresh):
			return m, m.loadCurrent()
		}

	case tickMsg:
		// Re-read so timers started through the API or CLI show up too
		return m, tea.Batch(tick(), m.loadCurrent())

	case currentMsg:
		m.rec = msg.rec
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m WatchModel) View() string {
	header := HeaderStyle.Render("Timelog")

	var body string
	switch {
	case m.err != nil:
		body = ErrorStyle.Render(fmt.Sprintf("error: %v", m.err))
	case m.rec == nil:
		body = IdleStyle.Render("No timer running")
	default:
		elapsed := timer.FormatDuration(m.engine.Elapsed(m.rec))
		body = ElapsedStyle.Render(fmt.Sprintf("%s %s (%s)\n\n   %s",
			m.spinner.View(), m.rec.Project, m.rec.Task, elapsed))
	}

	help := HelpStyle.Render("s stop • r refresh • q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}
