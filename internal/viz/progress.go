package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	canvasWidth   = 40
	canvasHeight  = 20
	energyCap     = 600
	maxCollisions = 5
)

// ReportMsg carries a day report into the model.
type ReportMsg dynamo.DayReport

// DoneMsg ends the run. Err is the error the run finished with, if any.
type DoneMsg struct{ Err error }

// Progress is the live view of a running simulation.
type Progress struct {
	title    string
	bodies   []dynamo.Body
	reports  <-chan dynamo.DayReport
	result   <-chan error
	stop     func()
	last     dynamo.DayReport
	seen     bool
	energies []float64
	collided []string
	canvas   *Canvas
	extent   float64
	orbits   bool
	done     bool
	err      error
}

// NewProgress builds a view over reports. result receives the outcome of
// the run once reports is closed; stop is called when the user quits early.
func NewProgress(title string, bodies []dynamo.Body, reports <-chan dynamo.DayReport, result <-chan error, stop func()) Progress {
	xs := make([]dynamo.Body, len(bodies))
	copy(xs, bodies)
	var extent float64
	for _, b := range bodies {
		if r := b.Init.Position().Len(); r > extent {
			extent = r
		}
	}
	return Progress{
		title:    title,
		bodies:   xs,
		reports:  reports,
		result:   result,
		stop:     stop,
		energies: make([]float64, 0, energyCap),
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		extent:   extent * 1.05,
		orbits:   true,
	}
}

func (m Progress) Init() tea.Cmd {
	return m.next()
}

func (m Progress) next() tea.Cmd {
	reports, result := m.reports, m.result
	return func() tea.Msg {
		if r, ok := <-reports; ok {
			return ReportMsg(r)
		}
		return DoneMsg{Err: <-result}
	}
}

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.stop != nil {
				m.stop()
			}
			if m.done {
				return m, tea.Quit
			}
			return m, nil
		case "o":
			m.orbits = !m.orbits
		}
		return m, nil

	case ReportMsg:
		m.observe(dynamo.DayReport(msg))
		return m, m.next()

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m *Progress) observe(r dynamo.DayReport) {
	m.last = r
	m.seen = true
	if len(m.energies) == energyCap {
		m.energies = append(m.energies[:0], m.energies[1:]...)
	}
	m.energies = append(m.energies, r.Energy.Total)
	for _, c := range r.Collisions {
		m.collided = append(m.collided, fmt.Sprintf("day %d: %s", r.Day, c.Describe(m.bodies)))
	}
	if len(m.collided) > maxCollisions {
		m.collided = m.collided[len(m.collided)-maxCollisions:]
	}
	if len(r.Positions) > 0 {
		m.canvas.Clear()
		m.canvas.PlotTopDown(r.Positions, m.extent)
	}
}

// Err returns the error the run finished with.
func (m Progress) Err() error { return m.err }

func (m Progress) View() string {
	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusError.Render("FAILED: "+m.err.Error()) + "\n\n")
	case m.done:
		s.WriteString(StatusDone.Render("DONE") + "\n\n")
	default:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	}

	r := m.last
	fraction := 0.0
	if m.seen && r.Days > 0 {
		fraction = float64(r.Day+1) / float64(r.Days)
	}
	s.WriteString(ProgressBar(fraction, 30) + fmt.Sprintf(" %3.0f%%\n\n", 100*fraction))
	s.WriteString(Metric("Day", fmt.Sprintf("%d / %d", r.Day+1, r.Days)) + "\n")
	s.WriteString(Metric("Days/s", fmt.Sprintf("%.1f", r.DaysPerSecond)) + "\n")
	s.WriteString(Metric("Fidelity k", fmt.Sprintf("%d", r.Level)) + "\n")
	s.WriteString(Metric("Max ratio", fmt.Sprintf("%.3g", r.MaxRatio)) + "\n")
	s.WriteString(Metric("Energy", fmt.Sprintf("%.6e", r.Energy.Total)) + "\n")

	if chart := EnergyPlot(m.energies, 30, 4, "total energy"); chart != "" {
		s.WriteString("\n" + chart + "\n")
	}
	if len(m.collided) > 0 {
		s.WriteString("\n")
		for _, c := range m.collided {
			s.WriteString(Warning.Render(c) + "\n")
		}
	}
	s.WriteString("\n" + Subtle.Render("q: quit  o: orbits"))

	stats := Panel.Render(s.String())
	if !m.orbits {
		return stats
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(m.canvas.String()), stats)
}
