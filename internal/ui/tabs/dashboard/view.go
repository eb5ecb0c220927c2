package dashboard

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/lvanderveken/cycletrack/internal/models"
	"github.com/lvanderveken/cycletrack/internal/ui/styles"
)

const updatedTimeFormat = "Jan 02, 3:04 PM"

// View renders the dashboard tab.
func (m *Model) View() string {
	snap := m.state.Snapshot()

	var sections []string
	sections = append(sections, m.renderUsageCard(snap))
	sections = append(sections, m.renderCycleCard(snap))
	sections = append(sections, m.renderBudgetCard(snap))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderUsageCard(snap models.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Usage"))

	barWidth := max(cardWidth-8, 20)
	rows = append(rows, m.usageBar.View(snap.UsagePercent, "This cycle", barWidth))
	rows = append(rows, "")

	rows = append(rows, statRow("Used",
		styles.UsageStyle(snap.UsagePercent).Render(
			fmt.Sprintf("%.1f of %.1f", snap.Record.CurrentUsage, snap.Record.MonthlyLimit))))
	rows = append(rows, statRow("Status",
		styles.StatusStyle(snap.Status).Render(snap.Status.Indicator()+" "+string(snap.Status))))

	if !snap.Record.LastUpdated.IsZero() {
		rows = append(rows, statRow("Updated",
			styles.MutedStyle.Render(snap.Record.LastUpdated.Format(updatedTimeFormat))))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderCycleCard(snap models.Snapshot) string {
	cardWidth := max(m.width-6, 40)
	stats := snap.Stats

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Billing Cycle"))

	rows = append(rows, statRow("Mode", stats.Mode.String()))
	if stats.CurrentDay == 0 {
		rows = append(rows, statRow("Day",
			styles.MutedStyle.Render("cycle has not started")))
	} else {
		rows = append(rows, statRow("Day",
			fmt.Sprintf("%d of %d", stats.CurrentDay, stats.DaysInCycle)))
	}
	rows = append(rows, statRow("Remaining", fmt.Sprintf("%d days", stats.DaysRemaining)))

	if stats.Mode == models.CycleFixedReset {
		rows = append(rows, statRow("Reset date", stats.ResetDate.Format("2006-01-02")))
		rows = append(rows, statRow("Next reset", stats.NextReset.Format("2006-01-02")))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderBudgetCard(snap models.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Projection"))

	rows = append(rows, statRow("Predicted",
		styles.UsageStyle(snap.PredictedPercent).Render(
			fmt.Sprintf("%.1f (%.0f%% of limit)", snap.Predicted, snap.PredictedPercent))))

	if snap.DailyAverage > 0 {
		rows = append(rows, statRow("Daily average", fmt.Sprintf("%.1f/day", snap.DailyAverage)))
	}

	switch {
	case snap.Stats.DaysRemaining <= 0:
		rows = append(rows, statRow("Budget",
			styles.MutedStyle.Render("cycle ending, no daily allowance")))
	case snap.OverBudget():
		rows = append(rows, statRow("Budget",
			styles.StatusStyle(models.StatusOver).Render(
				fmt.Sprintf("Over budget by %.1f", snap.OverBudgetBy))))
	default:
		rows = append(rows, statRow("Budget",
			fmt.Sprintf("%.1f/day to stay under the limit", snap.RecommendedDaily)))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func statRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.LabelStyle.Render(label),
		styles.ValueStyle.Render(value),
	)
}
