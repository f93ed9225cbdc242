package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

func testState() *dynamo.State {
	return &dynamo.State{
		M:   []float64{2, 3},
		X:   []mgl64.Vec3{{0, 0, 0}, {0, 4, 3}},
		V:   []mgl64.Vec3{{1, 0, 0}, {0, 2, 0}},
		A:   make([]mgl64.Vec3, 2),
		Ext: make([]mgl64.Vec3, 2),
	}
}

func TestComputeEnergy(t *testing.T) {
	w, err := ComputeEnergy(testState(), 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 1/2 (2*1 + 3*4) and -0.5 * 2*3/5
	if math.Abs(w.Kinetic-7) > 1e-12 {
		t.Errorf("expected kinetic 7, got %f", w.Kinetic)
	}
	if math.Abs(w.Potential+0.6) > 1e-12 {
		t.Errorf("expected potential -0.6, got %f", w.Potential)
	}
	if math.Abs(w.Total-6.4) > 1e-12 {
		t.Errorf("expected total 6.4, got %f", w.Total)
	}
}

func TestComputeEnergy_Degenerate(t *testing.T) {
	s := testState()
	s.X[1] = s.X[0]

	_, err := ComputeEnergy(s, 1)
	if !errors.Is(err, dynamo.ErrDegenerateGeometry) {
		t.Errorf("expected ErrDegenerateGeometry, got %v", err)
	}
}

func TestComputeEnergy_Pure(t *testing.T) {
	s := testState()
	before := s.Clone()
	if _, err := ComputeEnergy(s, 1); err != nil {
		t.Fatal(err)
	}
	for i := range s.X {
		if s.X[i] != before.X[i] || s.V[i] != before.V[i] {
			t.Errorf("state modified at body %d", i)
		}
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	start := dynamo.Energy{Total: -10}
	for _, e := range []float64{-10, -10.1, -9.95, -10} {
		m.OnDay(dynamo.DayReport{StartEnergy: start, Energy: dynamo.Energy{Total: e}})
		start = dynamo.Energy{Total: e}
	}

	if math.Abs(m.Value()-0.01) > 1e-12 {
		t.Errorf("expected drift 0.01, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestEnergyDrift_FirstDay(t *testing.T) {
	m := NewEnergyDrift()
	m.OnDay(dynamo.DayReport{
		StartEnergy: dynamo.Energy{Total: -10},
		Energy:      dynamo.Energy{Total: -10.2},
	})

	if math.Abs(m.Value()-0.02) > 1e-12 {
		t.Errorf("expected drift 0.02 after one day, got %f", m.Value())
	}
}

func TestDefaults(t *testing.T) {
	ms := Defaults()
	days := []dynamo.DayReport{
		{Level: 1, StartEnergy: dynamo.Energy{Total: -1}, Energy: dynamo.Energy{Total: -1}},
		{Level: 9, Energy: dynamo.Energy{Total: -1}, Collisions: []dynamo.Collision{{Planet: 3, Probe: 9}}},
		{Level: 9, Energy: dynamo.Energy{Total: -1}, Collisions: []dynamo.Collision{{Planet: 3, Probe: 9}, {Planet: 3, Probe: 10}}},
		{Level: 1, Energy: dynamo.Energy{Total: -1}},
	}
	for _, d := range days {
		for _, m := range ms {
			m.OnDay(d)
		}
	}

	got := Collect(ms)
	if got["collisions"] != 3 {
		t.Errorf("expected 3 collisions, got %v", got["collisions"])
	}
	if got["high_fidelity_share"] != 0.5 {
		t.Errorf("expected share 0.5, got %v", got["high_fidelity_share"])
	}
	if got["energy_drift"] != 0 {
		t.Errorf("expected no drift, got %v", got["energy_drift"])
	}
}
