package tui

import "github.com/charmbracelet/lipgloss"

var (
	flame    = lipgloss.Color("#FE3C72")
	amber    = lipgloss.Color("#FFB300")
	mint     = lipgloss.Color("#39D98A")
	slate    = lipgloss.Color("#8A8FA3")
	snow     = lipgloss.Color("#F5F5F5")
	errorRed = lipgloss.Color("#FF4D4F")

	titleStyle = lipgloss.NewStyle().
			Foreground(flame).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(flame).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(slate)

	valueStyle = lipgloss.NewStyle().
			Foreground(snow).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(mint).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(slate).
			Faint(true)
)

// outcomeStyle colors a step outcome in the recent list
func outcomeStyle(outcome string) lipgloss.Style {
	switch outcome {
	case "added", "updated", "liked", "sent":
		return lipgloss.NewStyle().Foreground(mint)
	case "match":
		return lipgloss.NewStyle().Foreground(flame).Bold(true)
	case "failed", "rate limited":
		return lipgloss.NewStyle().Foreground(errorRed)
	case "unchanged", "skipped":
		return lipgloss.NewStyle().Foreground(slate)
	default:
		return lipgloss.NewStyle().Foreground(amber)
	}
}
