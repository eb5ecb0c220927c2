package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/lvanderveken/cycletrack/internal/models"
	"github.com/lvanderveken/cycletrack/internal/ui/styles"
	"github.com/lvanderveken/cycletrack/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderCycleCard(),
		m.renderAboutCard(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	w := m.width - 6
	if w < 50 {
		w = 50
	}
	if w > 80 {
		w = 80
	}
	return w
}

func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"), "")

	if m.config != nil {
		rows = append(rows, configRow("Record File", m.config.StorePath))
		rows = append(rows, configRow("Database", m.config.DatabasePath))
		rows = append(rows, configRow("Log File", m.config.LogPath))
		rows = append(rows, configRow("Refresh", m.config.RefreshInterval.String()))
		rows = append(rows, configRow("Notifications", fmt.Sprintf("%t", m.config.Notifications)))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderCycleCard() string {
	snap := m.state.Snapshot()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Cycle Mode"), "")

	rows = append(rows, configRow("Active Mode", snap.Stats.Mode.String()))
	rows = append(rows, "")

	if snap.Stats.Mode == models.CycleFixedReset {
		rows = append(rows, styles.HelpStyle.Render(
			"Usage is tracked in a 30-day window anchored at your billing"))
		rows = append(rows, styles.HelpStyle.Render(
			"reset date. When the window elapses, usage resets to zero and"))
		rows = append(rows, styles.HelpStyle.Render(
			"the anchor advances by whole 30-day cycles."))
	} else {
		rows = append(rows, styles.HelpStyle.Render(
			"Usage is tracked per calendar month. Set a billing reset date"))
		rows = append(rows, styles.HelpStyle.Render(
			"with 'd' to switch to a 30-day cycle anchored at that date."))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About cycletrack"), "")

	rows = append(rows, configRow("Version", version.Info()))
	rows = append(rows, configRow("Go Version", runtime.Version()))
	rows = append(rows, configRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func configRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}
