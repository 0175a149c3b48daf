package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI drives a bubbletea program showing batch progress. It does not read
// from the terminal and installs no signal handler, so Ctrl+C still reaches
// the caller's signal context.
type TUI struct {
	program *tea.Program
	done    chan struct{}
	err     error
}

// New creates a TUI rendering to out. Call Run before reporting progress.
func New(out io.Writer) *TUI {
	program := tea.NewProgram(NewModel(),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	return &TUI{
		program: program,
		done:    make(chan struct{}),
	}
}

// Run starts the program in the background
func (t *TUI) Run() {
	go func() {
		defer close(t.done)
		_, t.err = t.program.Run()
	}()
}

// Start begins reporting a batch of total items
func (t *TUI) Start(operation string, total int) {
	t.program.Send(StartMsg{Operation: operation, Total: total})
}

// Step reports one processed item
func (t *TUI) Step(label, outcome string) {
	t.program.Send(StepMsg{Label: label, Outcome: outcome})
}

// Finish marks the current batch complete
func (t *TUI) Finish() {
	t.program.Send(FinishMsg{})
}

// Close stops the program and waits for the final frame to be drawn
func (t *TUI) Close() error {
	t.program.Quit()
	<-t.done
	return t.err
}
