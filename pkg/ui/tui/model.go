package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const maxRecent = 8

// StartMsg begins a new batch operation
type StartMsg struct {
	Operation string
	Total     int
}

// StepMsg reports one processed item of the current batch
type StepMsg struct {
	Label   string
	Outcome string
}

// FinishMsg marks the current batch as complete
type FinishMsg struct{}

// Model renders the progress of one batch operation at a time
type Model struct {
	spinner spinner.Model
	bar     progress.Model

	operation string
	total     int
	done      int
	outcomes  map[string]int
	recent    []string
	finished  bool
	width     int
}

// NewModel creates an idle model
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle

	bar := progress.New(progress.WithGradient("#FE3C72", "#FF7854"))
	bar.Width = 40

	return Model{
		spinner:  s,
		bar:      bar,
		outcomes: make(map[string]int),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 20; w > 10 && w < 60 {
			m.bar.Width = w
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StartMsg:
		m.operation = msg.Operation
		m.total = msg.Total
		m.done = 0
		m.outcomes = make(map[string]int)
		m.recent = nil
		m.finished = false
		return m, nil

	case StepMsg:
		m.done++
		m.outcomes[msg.Outcome]++
		m.recent = append(m.recent, fmt.Sprintf("%s %s", outcomeStyle(msg.Outcome).Render(msg.Outcome), msg.Label))
		if len(m.recent) > maxRecent {
			m.recent = m.recent[len(m.recent)-maxRecent:]
		}
		return m, nil

	case FinishMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}

// Percent is the completed share of the current batch, 0 when the total is unknown
func (m Model) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	p := float64(m.done) / float64(m.total)
	if p > 1 {
		return 1
	}
	return p
}

func (m Model) View() string {
	if m.operation == "" {
		return m.spinner.View() + " " + dimStyle.Render("waiting...")
	}

	var b strings.Builder

	header := m.spinner.View() + " " + titleStyle.Render(m.operation)
	if m.finished {
		header = doneStyle.Render("✔ " + m.operation)
	}
	b.WriteString(header + "\n\n")

	b.WriteString(m.bar.ViewAs(m.Percent()))
	b.WriteString(fmt.Sprintf("  %s %s\n\n",
		valueStyle.Render(fmt.Sprintf("%d", m.done)),
		labelStyle.Render(fmt.Sprintf("of %d", m.total))))

	b.WriteString(m.renderOutcomes() + "\n")
	for _, line := range m.recent {
		b.WriteString("  " + line + "\n")
	}

	return panelStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func (m Model) renderOutcomes() string {
	keys := make([]string, 0, len(m.outcomes))
	for k := range m.outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, labelStyle.Render(k+":")+" "+valueStyle.Render(fmt.Sprintf("%d", m.outcomes[k])))
	}
	return strings.Join(parts, "  ")
}
