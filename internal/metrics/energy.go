package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// ComputeEnergy returns the total, kinetic and potential energy of s.
//
//	Wkin = 1/2 Σ m_i |v_i|²
//	Wpot = -G Σ_{i<j} m_i m_j / |x_i - x_j|
func ComputeEnergy(s *dynamo.State, g float64) (dynamo.Energy, error) {
	var w dynamo.Energy
	n := s.Len()

	for i := 0; i < n; i++ {
		w.Kinetic += s.M[i] * s.V[i].Dot(s.V[i])
	}
	w.Kinetic *= 0.5

	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			r := s.X[j].Sub(s.X[i]).Len()
			if r == 0 {
				err := dynamo.NewSimulationError(dynamo.ErrDegenerateGeometry)
				err.Body, err.Other = i, j
				return w, err
			}
			w.Potential += s.M[i] * s.M[j] / r
		}
	}
	w.Potential *= -g

	w.Total = w.Kinetic + w.Potential
	return w, nil
}

// EnergyDrift tracks the largest relative deviation of total energy from
// the energy at the start of the first observed day.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnDay(r dynamo.DayReport) {
	energy := r.Energy.Total

	if e.samples == 0 {
		e.initialEnergy = r.StartEnergy.Total
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
