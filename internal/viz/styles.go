package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/willow/internal/chain"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	acceptedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	attemptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffcc00"))
	exhaustedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// StatusGlyph renders one step of the build as a single colored cell.
func StatusGlyph(s chain.StepStatus) string {
	switch s {
	case chain.StepAccepted:
		return acceptedStyle.Render("█")
	case chain.StepAttempting:
		return attemptStyle.Render("▓")
	case chain.StepExhausted:
		return exhaustedStyle.Render("░")
	}
	return pendingStyle.Render("·")
}

// Spinner returns one frame of an animated spinner.
func Spinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return frames[frame%len(frames)]
}

// ProgressBar renders a fixed-width bar for percent in [0,1].
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if percent >= 1 {
		return acceptedStyle.Render(bar)
	}
	return attemptStyle.Render(bar)
}
