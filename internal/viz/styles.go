package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusDone = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	StatusError = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(14)

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffaa00"))

	barHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	barMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	barLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// ProgressBar renders a bar filled to fraction in [0, 1].
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case fraction > 0.8:
		return barHigh.Render(bar)
	case fraction > 0.4:
		return barMid.Render(bar)
	default:
		return barLow.Render(bar)
	}
}

// Metric renders a "label value" line.
func Metric(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value)
}

// EnergyPlot charts a series of energies. Series shorter than two points
// render as an empty string.
func EnergyPlot(values []float64, width, height int, caption string) string {
	if len(values) < 2 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RelativeDrift returns |w - w0| / |w0| for each entry.
func RelativeDrift(ws []dynamo.Energy) []float64 {
	out := make([]float64, len(ws))
	if len(ws) == 0 || ws[0].Total == 0 {
		return out
	}
	w0 := ws[0].Total
	for i, w := range ws {
		d := (w.Total - w0) / w0
		if d < 0 {
			d = -d
		}
		out[i] = d
	}
	return out
}

// Summary renders the closing report of a run.
func Summary(r dynamo.DayReport, metrics map[string]float64, names []string) string {
	var s strings.Builder
	s.WriteString(Title.Render("RUN COMPLETE") + "\n\n")
	s.WriteString(Metric("Days", fmt.Sprintf("%d", r.Day+1)) + "\n")
	s.WriteString(Metric("Days/s", fmt.Sprintf("%.1f", r.DaysPerSecond)) + "\n")
	s.WriteString(Metric("Elapsed", r.Elapsed.Round(time.Millisecond).String()) + "\n")
	s.WriteString(Metric("Energy", fmt.Sprintf("%.6e", r.Energy.Total)) + "\n")
	for _, k := range names {
		if v, ok := metrics[k]; ok {
			s.WriteString(Metric(k, fmt.Sprintf("%.4g", v)) + "\n")
		}
	}
	return Panel.Render(s.String())
}
