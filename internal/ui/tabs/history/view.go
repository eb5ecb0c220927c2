package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lvanderveken/cycletrack/internal/models"
	"github.com/lvanderveken/cycletrack/internal/ui/components"
	"github.com/lvanderveken/cycletrack/internal/ui/styles"
)

// View renders the history tab.
func (m *Model) View() string {
	points := m.state.History()
	if len(points) == 0 {
		return m.renderEmpty()
	}

	sections := []string{
		m.renderHeader(points),
		m.renderChartCard(points),
		m.renderRecentCard(points),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("History"),
		"",
		styles.HelpStyle.Render("No history recorded yet."),
		styles.HelpStyle.Render("Rows appear as usage is updated and refreshed."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader(points []models.UsagePoint) string {
	title := styles.TitleStyle.Render("History")

	first := points[0].Timestamp
	last := points[len(points)-1].Timestamp
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d points, %s to %s",
		len(points),
		first.Format("Jan 2, 2006"),
		last.Format("Jan 2, 2006"),
	))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderChartCard(points []models.UsagePoint) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Usage Over Time"), "")

	chartWidth := max(cardWidth-12, 30)
	chart := components.RenderUsageChart(points, chartWidth, 8, "usage")
	for _, line := range strings.Split(chart, "\n") {
		rows = append(rows, "  "+line)
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRecentCard(points []models.UsagePoint) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Recent Entries"), "")

	header := fmt.Sprintf("  %-16s %10s %10s %8s  %s",
		"When", "Usage", "Predicted", "Day", "Source")
	rows = append(rows, styles.MutedStyle.Render(header))

	// Newest first, capped at recentRows.
	shown := 0
	for i := len(points) - 1; i >= 0 && shown < recentRows; i-- {
		p := points[i]
		line := fmt.Sprintf("  %-16s %10.1f %10.1f %8d  %s",
			p.Timestamp.Format("Jan 02 15:04"),
			p.Usage,
			p.Predicted,
			p.CycleDay,
			p.Source,
		)
		rows = append(rows, styles.StatusStyle(p.Status).Render(line))
		shown++
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
