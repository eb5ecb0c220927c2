package components

import (
	"github.com/guptarohit/asciigraph"

	"github.com/lvanderveken/cycletrack/internal/models"
	"github.com/lvanderveken/cycletrack/internal/ui/styles"
)

// RenderUsageChart plots recorded usage readings as an ASCII line chart.
func RenderUsageChart(points []models.UsagePoint, width, height int, caption string) string {
	if len(points) == 0 {
		return styles.HelpStyle.Render("No history yet")
	}

	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = p.Usage
	}

	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
