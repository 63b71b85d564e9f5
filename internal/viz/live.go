package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/willow/internal/chain"
)

type TickMsg time.Time

// StepMsg carries one finished step from the builder's observer.
type StepMsg chain.StepReport

// DoneMsg carries the finished build, or the error that ended it.
type DoneMsg struct {
	Result *chain.Result
	Err    error
}

// Model is a bubbletea view of one in-flight chain build. Events arrive on a
// channel fed by a chain.Observer running in the build goroutine.
type Model struct {
	steps    int
	events   <-chan tea.Msg
	statuses []chain.StepStatus
	attempts []int
	finished int
	frame    int
	done     *chain.Result
	err      error
	quitting bool
}

func NewModel(steps int, events <-chan tea.Msg) Model {
	if steps < 1 {
		steps = 1
	}
	return Model{
		steps:    steps,
		events:   events,
		statuses: make([]chain.StepStatus, steps-1),
		attempts: make([]int, steps-1),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), tick())
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/12, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case TickMsg:
		m.frame++
		return m, tick()
	case StepMsg:
		r := chain.StepReport(msg)
		if r.Index >= 0 && r.Index < len(m.statuses) {
			m.statuses[r.Index] = r.Status
			m.attempts[r.Index] = r.Attempts
			m.finished++
		}
		return m, m.waitForEvent()
	case DoneMsg:
		m.done = msg.Result
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

// Result returns the finished build, or nil while still running.
func (m Model) Result() *chain.Result { return m.done }

// Err returns the error that ended the build, if any.
func (m Model) Err() error { return m.err }

func (m Model) View() string {
	if m.quitting || m.done != nil || m.err != nil {
		return ""
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("WILLOW CHAIN "+Spinner(m.frame)) + "\n")

	total := m.steps - 1
	percent := 0.0
	if total > 0 {
		percent = float64(m.finished) / float64(total)
	}
	s.WriteString(ProgressBar(percent, 40))
	s.WriteString(fmt.Sprintf("  %d/%d\n\n", m.finished, total))

	for _, st := range m.statuses {
		s.WriteString(StatusGlyph(st))
	}
	s.WriteByte('\n')

	accepted, exhausted, attempts := 0, 0, 0
	for i, st := range m.statuses {
		switch st {
		case chain.StepAccepted:
			accepted++
		case chain.StepExhausted:
			exhausted++
		}
		attempts += m.attempts[i]
	}
	s.WriteString(labelStyle.Render("Accepted") + valueStyle.Render(fmt.Sprintf("%d", accepted)) + "\n")
	s.WriteString(labelStyle.Render("Exhausted") + valueStyle.Render(fmt.Sprintf("%d", exhausted)) + "\n")
	s.WriteString(labelStyle.Render("Attempts") + valueStyle.Render(fmt.Sprintf("%d", attempts)) + "\n")
	s.WriteString(helpStyle.Render("Q:Quit"))
	return s.String()
}
