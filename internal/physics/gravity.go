package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Gravity evaluates Newtonian acceleration between catalogued bodies.
type Gravity struct {
	G float64
	// MinSeparation is the distance at or below which a pair is rejected
	// as degenerate. Zero rejects only coincident bodies.
	MinSeparation float64
}

func NewGravity(g float64) Gravity {
	return Gravity{G: g}
}

// Accelerate writes the acceleration of every body at fidelity k into dst,
// starting from the external acceleration of each body.
//
// A probe (index >= nplanets) at k == 1 interacts with body 0 only; every
// other body interacts with all lower-indexed bodies. Each pair is visited
// once and applied to both bodies with opposite sign.
func (g Gravity) Accelerate(dst []mgl64.Vec3, s *dynamo.State, nplanets int, k dynamo.Level) error {
	n := s.Len()
	copy(dst[:n], s.Ext)

	for i := 0; i < n; i++ {
		jMax := i
		if i >= nplanets && k == dynamo.LevelSunOnly && i > 0 {
			jMax = 1
		}

		xi := s.X[i]
		mi := s.M[i]
		for j := 0; j < jMax; j++ {
			x := s.X[j].Sub(xi)
			r := x.Len()
			if r <= g.MinSeparation {
				return g.degenerate(i, j)
			}

			x = x.Mul(g.G / (r * r * r))
			dst[i] = dst[i].Add(x.Mul(s.M[j]))
			dst[j] = dst[j].Sub(x.Mul(mi))
		}
	}

	return nil
}

// AccelerateState evaluates acceleration into s.A.
func (g Gravity) AccelerateState(s *dynamo.State, nplanets int, k dynamo.Level) error {
	return g.Accelerate(s.A, s, nplanets, k)
}

func (g Gravity) degenerate(i, j int) error {
	err := dynamo.NewSimulationError(dynamo.ErrDegenerateGeometry)
	err.Body, err.Other = i, j
	return err
}

// Field binds a Gravity to a run so it can drive an integrator.
type Field struct {
	Gravity  Gravity
	Nplanets int
	Level    dynamo.Level
}

func (f *Field) Accelerate(s *dynamo.State) error {
	return f.Gravity.AccelerateState(s, f.Nplanets, f.Level)
}
