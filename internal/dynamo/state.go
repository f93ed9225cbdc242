package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the runtime state of a run: one row per body, indexed like the catalogue.
type State struct {
	M   []float64
	X   []mgl64.Vec3
	V   []mgl64.Vec3
	A   []mgl64.Vec3
	Ext []mgl64.Vec3
}

// NewState copies masses and initial rows of each body into flat runtime arrays.
func NewState(bodies []Body) *State {
	n := len(bodies)
	s := &State{
		M:   make([]float64, n),
		X:   make([]mgl64.Vec3, n),
		V:   make([]mgl64.Vec3, n),
		A:   make([]mgl64.Vec3, n),
		Ext: make([]mgl64.Vec3, n),
	}
	for i, b := range bodies {
		s.M[i] = b.Init.Mass()
		s.X[i] = b.Init.Position()
		s.V[i] = b.Init.Velocity()
		s.A[i] = b.Init.Acceleration()
		s.Ext[i] = b.Init.External()
	}
	return s
}

func (s *State) Len() int { return len(s.M) }

func (s *State) Clone() *State {
	return &State{
		M:   append([]float64(nil), s.M...),
		X:   cloneVecs(s.X),
		V:   cloneVecs(s.V),
		A:   cloneVecs(s.A),
		Ext: cloneVecs(s.Ext),
	}
}

// CheckFinite returns the index of the first body whose position or
// velocity is NaN or Inf, or -1.
func (s *State) CheckFinite() int {
	for i := range s.X {
		if !finite(s.X[i]) || !finite(s.V[i]) {
			return i
		}
	}
	return -1
}

func cloneVecs(v []mgl64.Vec3) []mgl64.Vec3 {
	c := make([]mgl64.Vec3, len(v))
	copy(c, v)
	return c
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
