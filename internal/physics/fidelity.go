package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

// DefaultThreshold is the planet-to-baseline acceleration ratio above which
// a day runs with planets included for probes.
const DefaultThreshold = 1e-3

// Decision is the outcome of a fidelity selection.
type Decision struct {
	Level    dynamo.Level
	MaxRatio float64
	Probe    int // probe with the largest ratio, -1 without probes
}

// Selector picks the fidelity for a day by comparing the acceleration of
// each probe with and without planets. It keeps scratch buffers between
// calls and never modifies the state it inspects.
type Selector struct {
	Gravity   Gravity
	Threshold float64

	lo, hi []mgl64.Vec3
}

func NewSelector(g Gravity, threshold float64) *Selector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Selector{Gravity: g, Threshold: threshold}
}

func (sel *Selector) ensureScratch(n int) {
	if len(sel.lo) != n {
		sel.lo = make([]mgl64.Vec3, n)
		sel.hi = make([]mgl64.Vec3, n)
	}
}

// Select returns LevelPlanets when any probe's ratio
// |A_hi - A_lo| / |A_hi - Ext| exceeds the threshold and LevelSunOnly
// otherwise. A zero denominator with a non-zero numerator counts as an
// infinite ratio.
func (sel *Selector) Select(s *dynamo.State, nplanets int) (Decision, error) {
	n := s.Len()
	d := Decision{Level: dynamo.LevelSunOnly, Probe: -1}
	if nplanets >= n {
		return d, nil
	}

	sel.ensureScratch(n)
	if err := sel.Gravity.Accelerate(sel.lo, s, nplanets, dynamo.LevelSunOnly); err != nil {
		return d, err
	}
	high := dynamo.LevelPlanets(nplanets)
	if err := sel.Gravity.Accelerate(sel.hi, s, nplanets, high); err != nil {
		return d, err
	}

	for i := nplanets; i < n; i++ {
		ratio := accelRatio(sel.hi[i].Sub(sel.lo[i]).Len(), sel.hi[i].Sub(s.Ext[i]).Len())
		if ratio > d.MaxRatio {
			d.MaxRatio = ratio
			d.Probe = i
		}
	}

	if d.MaxRatio > sel.Threshold {
		d.Level = high
	}
	return d, nil
}

func accelRatio(num, den float64) float64 {
	if den == 0 {
		if num == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return num / den
}

// SelectFidelity is a one-shot Selector.Select.
func SelectFidelity(g Gravity, s *dynamo.State, nplanets int, threshold float64) (Decision, error) {
	return NewSelector(g, threshold).Select(s, nplanets)
}
