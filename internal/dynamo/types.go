package dynamo

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind distinguishes planets from probes.
type Kind int

const (
	Planet Kind = iota
	Probe
)

func (k Kind) String() string {
	switch k {
	case Planet:
		return "planet"
	case Probe:
		return "probe"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rows of an InitBlock.
const (
	RowAttr = iota
	RowPosition
	RowVelocity
	RowAcceleration
	RowExternal
	InitRows
)

// InitBlock holds the initial conditions of a body.
// Row 0 is [mass, radius or fuel, unused].
type InitBlock [InitRows]mgl64.Vec3

func (b InitBlock) Mass() float64 { return b[RowAttr][0] }
func (b InitBlock) Secondary() float64 { return b[RowAttr][1] }
func (b InitBlock) Position() mgl64.Vec3 { return b[RowPosition] }
func (b InitBlock) Velocity() mgl64.Vec3 { return b[RowVelocity] }
func (b InitBlock) Acceleration() mgl64.Vec3 { return b[RowAcceleration] }
func (b InitBlock) External() mgl64.Vec3 { return b[RowExternal] }

// Body is a catalogued planet or probe. The run never mutates it.
type Body struct {
	Name  string
	Color string
	Kind  Kind
	Init  InitBlock
}

// Mass in earth masses.
func (b Body) Mass() float64 { return b.Init.Mass() }

// Radius in au. Zero for probes.
func (b Body) Radius() float64 {
	if b.Kind != Planet {
		return 0
	}
	return b.Init.Secondary()
}

// Fuel in days. Zero for planets.
func (b Body) Fuel() float64 {
	if b.Kind != Probe {
		return 0
	}
	return b.Init.Secondary()
}

// RunConfig holds the scalar parameters of a run.
// Bodies [0, Nplanets) are planets, [Nplanets, N) are probes.
type RunConfig struct {
	Ndays    int
	N        int
	Nplanets int
	Tstep    float64 // seconds of simulated time per integration step
}

func (c RunConfig) Nprobes() int { return c.N - c.Nplanets }

func (c RunConfig) Validate() error {
	if c.N < 0 || c.Nplanets < 0 || c.Nplanets > c.N {
		return fmt.Errorf("%w: need 0 <= Nplanets <= N, got Nplanets=%d N=%d",
			ErrInvalidConfiguration, c.Nplanets, c.N)
	}
	if c.Nprobes() > 0 && c.Nplanets < 1 {
		return fmt.Errorf("%w: probes need at least one planet (the sun at index 0)", ErrInvalidConfiguration)
	}
	if c.Ndays < 0 {
		return fmt.Errorf("%w: day count must not be negative, got %d", ErrInvalidConfiguration, c.Ndays)
	}
	if !(c.Tstep > 0) || math.IsInf(c.Tstep, 0) {
		return fmt.Errorf("%w: time step must be positive, got %g", ErrInvalidConfiguration, c.Tstep)
	}
	return nil
}

// ValidateBodies checks the configuration against a catalogue.
func (c RunConfig) ValidateBodies(bodies []Body) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(bodies) != c.N {
		return fmt.Errorf("%w: N=%d but catalogue has %d bodies", ErrInvalidConfiguration, c.N, len(bodies))
	}
	for i, b := range bodies {
		want := Planet
		if i >= c.Nplanets {
			want = Probe
		}
		if b.Kind != want {
			return fmt.Errorf("%w: body %d (%s) is a %s, expected a %s",
				ErrInvalidConfiguration, i, b.Name, b.Kind, want)
		}
		if m := b.Mass(); !(m > 0) || math.IsInf(m, 0) {
			return fmt.Errorf("%w: body %d (%s) has non-positive mass %g",
				ErrInvalidConfiguration, i, b.Name, m)
		}
		if b.Kind == Planet && b.Radius() < 0 {
			return fmt.Errorf("%w: planet %d (%s) has negative radius %g",
				ErrInvalidConfiguration, i, b.Name, b.Radius())
		}
	}
	return nil
}

// Level is the interaction fidelity k of force evaluation: the number of
// lower-indexed partners a body interacts with.
type Level int

// LevelSunOnly makes probes feel only body 0.
const LevelSunOnly Level = 1

// LevelPlanets makes probes feel every planet.
func LevelPlanets(nplanets int) Level {
	if nplanets < 1 {
		return LevelSunOnly
	}
	return Level(nplanets)
}

// LevelFull includes every pair.
func LevelFull(n int) Level {
	if n < 1 {
		return LevelSunOnly
	}
	return Level(n)
}

// Energy is the (total, kinetic, potential) triple of a state.
type Energy struct {
	Total     float64
	Kinetic   float64
	Potential float64
}

// Collision reports a probe closer to a planet than the collision radius.
type Collision struct {
	Planet   int
	Probe    int
	Distance float64 // au
}

func (c Collision) String() string {
	return fmt.Sprintf("probe %d within %.6g au of planet %d", c.Probe, c.Distance, c.Planet)
}

// Describe renders the collision using catalogue names.
func (c Collision) Describe(bodies []Body) string {
	if c.Planet < 0 || c.Planet >= len(bodies) || c.Probe < 0 || c.Probe >= len(bodies) {
		return c.String()
	}
	return fmt.Sprintf("probe %s within %.6g au of planet %s",
		bodies[c.Probe].Name, c.Distance, bodies[c.Planet].Name)
}

// DayReport summarizes one simulated day.
type DayReport struct {
	Day           int
	Days          int
	Level         Level
	MaxRatio      float64
	StartEnergy   Energy // before the day's integration
	Energy        Energy
	Collisions    []Collision
	Positions     []mgl64.Vec3 // at the end of the day
	Elapsed       time.Duration
	DaysPerSecond float64
}

type Observer interface {
	OnDay(r DayReport)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(r DayReport)

func (f ObserverFunc) OnDay(r DayReport) { f(r) }
