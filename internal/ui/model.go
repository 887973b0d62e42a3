// Package ui provides the Bubble Tea terminal interface for a pipeline run.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/forPelevin/hourmix/internal/event"
)

const (
	pollInterval = 100 * time.Millisecond
	maxLogLines  = 8
)

// Model renders one run. It owns no pipeline state; everything it shows
// arrives through the event queue.
type Model struct {
	queue  *event.Queue
	cancel func()

	status     string
	current    int
	total      int
	percent    float64
	logs       []event.Log
	errText    string
	outputPath string
	cancelling bool
	done       bool

	width int
}

type pollMsg struct {
	events []event.Event
	done   bool
}

// NewModel wires a model to the queue it polls. cancel is invoked when
// the user quits before the run ends.
func NewModel(queue *event.Queue, cancel func()) Model {
	return Model{queue: queue, cancel: cancel, status: "Starting..."}
}

// Show runs the interface until the event stream ends.
func Show(queue *event.Queue, cancel func()) error {
	_, err := tea.NewProgram(NewModel(queue, cancel)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.poll()
}

func (m Model) poll() tea.Cmd {
	queue := m.queue
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollMsg{events: queue.Drain(), done: queue.Done()}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			// Keep polling; the run's final events still need to land.
			m.cancelling = true
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case pollMsg:
		for _, e := range msg.events {
			m.apply(e)
		}
		if msg.done {
			m.done = true
			return m, tea.Quit
		}
		return m, m.poll()
	}
	return m, nil
}

func (m *Model) apply(e event.Event) {
	switch e := e.(type) {
	case event.Status:
		m.status = e.Text
	case event.Progress:
		m.current, m.total = e.Current, e.Total
	case event.SubProgress:
		m.percent = e.Percent
	case event.Log:
		m.logs = append(m.logs, e)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
	case event.Error:
		m.errText = e.Text
	case event.Completed:
		m.outputPath = e.OutputPath
	}
}

func (m Model) View() string {
	if m.done {
		return renderSummary(m)
	}
	return renderRun(m)
}
