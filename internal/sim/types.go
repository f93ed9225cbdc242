package sim

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Phase is the lifecycle state of a Simulation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreparing
	PhaseDayLoop
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreparing:
		return "preparing"
	case PhaseDayLoop:
		return "day-loop"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Mode chooses how the fidelity of each day is decided.
type Mode string

const (
	ModeAdaptive Mode = "adaptive"
	ModeSun      Mode = "sun"
	ModePlanets  Mode = "planets"
	ModeFull     Mode = "full"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAdaptive, ModeSun, ModePlanets, ModeFull:
		return m, nil
	case "":
		return ModeAdaptive, nil
	default:
		return "", fmt.Errorf("%w: unknown fidelity mode %q", dynamo.ErrInvalidConfiguration, s)
	}
}

// DefaultReference is the catalogue index probes launch from (earth).
const DefaultReference = 3

type Options struct {
	Units           dynamo.Units
	Mode            Mode
	Threshold       float64
	CollisionFactor float64
	MinSeparation   float64
	Reference       int
}

func DefaultOptions() Options {
	return Options{
		Units:           dynamo.SolarUnits(),
		Mode:            ModeAdaptive,
		Threshold:       physics.DefaultThreshold,
		CollisionFactor: physics.DefaultCollisionFactor,
		Reference:       DefaultReference,
	}
}
