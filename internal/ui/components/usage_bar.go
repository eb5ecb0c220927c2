// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/lvanderveken/cycletrack/internal/ui/styles"
)

// UsageBar renders usage as a labeled progress bar with a percentage.
type UsageBar struct {
	progress progress.Model
}

// NewUsageBar creates a usage bar with gradient colors.
func NewUsageBar() UsageBar {
	p := progress.New(
		progress.WithScaledGradient("#51cf66", "#ff6b6b"),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return UsageBar{progress: p}
}

// View renders the bar for a 0-100 percentage. Values past 100 stay pinned
// at a full bar; the colored percentage still shows the real number.
func (u UsageBar) View(percent float64, label string, width int) string {
	barWidth := width - 26 // label + percentage columns
	if barWidth < 10 {
		barWidth = 10
	}
	u.progress.Width = barWidth

	filled := percent / 100
	if filled > 1 {
		filled = 1
	}
	if filled < 0 {
		filled = 0
	}
	bar := u.progress.ViewAs(filled)

	percentStr := styles.UsageStyle(percent).
		Width(6).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	labelStr := styles.LabelStyle.Render(label)

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}
