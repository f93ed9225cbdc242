package dynamo

import "github.com/go-gl/mathgl/mgl64"

// History is the append-only record of a run. Entry i is the state at the
// start of day i.
type History struct {
	Velocities [][]mgl64.Vec3
	Energies   []Energy
	Positions  [][]mgl64.Vec3
	Levels     []Level
}

func NewHistory(capacity int) *History {
	return &History{
		Velocities: make([][]mgl64.Vec3, 0, capacity),
		Energies:   make([]Energy, 0, capacity),
		Positions:  make([][]mgl64.Vec3, 0, capacity),
		Levels:     make([]Level, 0, capacity),
	}
}

func (h *History) Len() int { return len(h.Energies) }

// Append snapshots the state. Levels is filled in separately once the
// day's fidelity is known.
func (h *History) Append(s *State, w Energy) {
	h.Velocities = append(h.Velocities, cloneVecs(s.V))
	h.Energies = append(h.Energies, w)
	h.Positions = append(h.Positions, cloneVecs(s.X))
}

// Slice returns the entries [from, len) as a new History sharing snapshots.
func (h *History) Slice(from int) *History {
	if from < 0 {
		from = 0
	}
	if from > h.Len() {
		from = h.Len()
	}
	out := &History{
		Velocities: h.Velocities[from:],
		Energies:   h.Energies[from:],
		Positions:  h.Positions[from:],
	}
	if from <= len(h.Levels) {
		out.Levels = h.Levels[from:]
	}
	return out
}

// Record is everything a run file holds: configuration, catalogue and history.
type Record struct {
	Config  RunConfig
	Bodies  []Body
	History *History
}
