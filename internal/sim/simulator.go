package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Simulation drives one run day by day. It owns the runtime state and is
// not safe for concurrent use.
type Simulation struct {
	opts      Options
	gravity   physics.Gravity
	selector  *physics.Selector
	field     physics.Field
	verlet    *integrators.Verlet
	observers []dynamo.Observer

	cfg         dynamo.RunConfig
	bodies      []dynamo.Body
	state       *dynamo.State
	energy      dynamo.Energy
	history     *dynamo.History
	stepsPerDay int
	phase       Phase
	err         error
}

func New(opts Options) *Simulation {
	g := physics.Gravity{G: opts.Units.G, MinSeparation: opts.MinSeparation}
	if opts.Mode == "" {
		opts.Mode = ModeAdaptive
	}
	if opts.CollisionFactor <= 0 {
		opts.CollisionFactor = physics.DefaultCollisionFactor
	}
	return &Simulation{
		opts:     opts,
		gravity:  g,
		selector: physics.NewSelector(g, opts.Threshold),
		field:    physics.Field{Gravity: g},
		phase:    PhaseIdle,
	}
}

func (s *Simulation) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) Phase() Phase { return s.phase }
func (s *Simulation) Bodies() []dynamo.Body { return s.bodies }
func (s *Simulation) State() *dynamo.State { return s.state }
func (s *Simulation) History() *dynamo.History { return s.history }
func (s *Simulation) Energy() dynamo.Energy { return s.energy }
func (s *Simulation) StepsPerDay() int { return s.stepsPerDay }
func (s *Simulation) Err() error { return s.err }

// Config returns the run configuration with Ndays set to the planned day count.
func (s *Simulation) Config() dynamo.RunConfig { return s.cfg }

// Record returns the configuration, catalogue and history of the days run so far.
func (s *Simulation) Record() *dynamo.Record {
	cfg := s.cfg
	h := s.history
	if h == nil {
		h = dynamo.NewHistory(0)
	}
	cfg.Ndays = h.Len()
	return &dynamo.Record{Config: cfg, Bodies: s.bodies, History: h}
}

// Prepare validates the catalogue and builds the runtime state: masses and
// initial rows are copied, the step size is derived from Tstep, the
// acceleration is seeded and the initial energy computed. On error the
// simulation is left as it was.
func (s *Simulation) Prepare(cfg dynamo.RunConfig, bodies []dynamo.Body) error {
	if s.phase == PhaseDayLoop || s.phase == PhaseDone {
		return dynamo.ErrRunComplete
	}
	if err := cfg.ValidateBodies(bodies); err != nil {
		return err
	}
	steps := integrators.StepsPerDay(s.opts.Units, cfg.Tstep)
	if steps < 1 {
		return fmt.Errorf("%w: time step %gs is longer than a day", dynamo.ErrInvalidConfiguration, cfg.Tstep)
	}

	bodies = append([]dynamo.Body(nil), bodies...)
	state := dynamo.NewState(bodies)
	field := physics.Field{Gravity: s.gravity, Nplanets: cfg.Nplanets, Level: s.initialLevel(cfg)}
	if err := field.Accelerate(state); err != nil {
		return err
	}
	w, err := metrics.ComputeEnergy(state, s.opts.Units.G)
	if err != nil {
		return err
	}

	s.phase = PhasePreparing
	s.cfg = cfg
	s.bodies = bodies
	s.state = state
	s.field = field
	s.energy = w
	s.stepsPerDay = steps
	s.verlet = integrators.NewVerlet(s.opts.Units.TimeFromSI(cfg.Tstep))
	s.history = dynamo.NewHistory(cfg.Ndays)
	return nil
}

// AddProbes appends count probes launched from the reference planet and
// prepares the run again. r0 is in metres and v0 in m/s. It is only allowed
// before the first day.
func (s *Simulation) AddProbes(count int, r0, v0 float64) error {
	if s.phase != PhasePreparing {
		if s.phase == PhaseIdle {
			return dynamo.ErrNotPrepared
		}
		return dynamo.ErrRunComplete
	}
	ref := s.opts.Reference
	if ref < 0 || ref >= s.cfg.Nplanets {
		return fmt.Errorf("%w: reference body %d is not a planet (have %d)",
			dynamo.ErrInvalidConfiguration, ref, s.cfg.Nplanets)
	}
	if count < 0 {
		return fmt.Errorf("%w: negative probe count %d", dynamo.ErrInvalidConfiguration, count)
	}

	probes := physics.ProbeRing(s.bodies[ref], count, r0, v0, s.opts.Units, s.cfg.Nprobes())
	bodies := append(append([]dynamo.Body(nil), s.bodies...), probes...)
	cfg := s.cfg
	cfg.N = len(bodies)
	return s.Prepare(cfg, bodies)
}

// Run runs every remaining planned day.
func (s *Simulation) Run(ctx context.Context) (*dynamo.History, error) {
	remaining := s.cfg.Ndays
	if s.history != nil {
		remaining -= s.history.Len()
	}
	return s.RunDays(ctx, remaining)
}

// RunDays runs up to count more days, never past the planned day count,
// and returns the full history. The first error aborts the run. A
// non-positive count is a no-op.
func (s *Simulation) RunDays(ctx context.Context, count int) (*dynamo.History, error) {
	switch s.phase {
	case PhaseIdle:
		return nil, dynamo.ErrNotPrepared
	case PhaseDone:
		if s.err != nil {
			return s.history, fmt.Errorf("%w: %w", dynamo.ErrRunComplete, s.err)
		}
		return s.history, dynamo.ErrRunComplete
	}

	if count <= 0 {
		return s.history, nil
	}
	s.phase = PhaseDayLoop
	first := s.history.Len()
	last := min(first+count, s.cfg.Ndays)

	start := time.Now()
	for day := first; day < last; day++ {
		select {
		case <-ctx.Done():
			return s.history, ctx.Err()
		default:
		}

		report, err := s.advanceDay(day)
		if err != nil {
			s.phase = PhaseDone
			s.err = dynamo.AtDay(err, day)
			return s.history, s.err
		}

		report.Days = s.cfg.Ndays
		report.Elapsed = time.Since(start)
		if secs := report.Elapsed.Seconds(); secs > 0 {
			report.DaysPerSecond = float64(day-first+1) / secs
		}
		for _, o := range s.observers {
			o.OnDay(report)
		}
	}

	if s.history.Len() >= s.cfg.Ndays {
		s.phase = PhaseDone
	}
	return s.history, nil
}

// advanceDay snapshots the state, selects the fidelity, integrates one
// day, and does the energy and collision bookkeeping.
func (s *Simulation) advanceDay(day int) (dynamo.DayReport, error) {
	start := s.energy
	s.history.Append(s.state, start)

	decision, err := s.decide()
	if err != nil {
		return dynamo.DayReport{}, err
	}
	s.history.Levels = append(s.history.Levels, decision.Level)

	if decision.Level != s.field.Level {
		s.field.Level = decision.Level
		if err := s.field.Accelerate(s.state); err != nil {
			return dynamo.DayReport{}, err
		}
	}

	if err := s.verlet.Integrate(s.state, &s.field, s.stepsPerDay); err != nil {
		return dynamo.DayReport{}, err
	}

	w, err := metrics.ComputeEnergy(s.state, s.opts.Units.G)
	if err != nil {
		return dynamo.DayReport{}, err
	}
	s.energy = w

	return dynamo.DayReport{
		Day:         day,
		Level:       decision.Level,
		MaxRatio:    decision.MaxRatio,
		StartEnergy: start,
		Energy:      w,
		Collisions:  physics.DetectCollisions(s.state, s.bodies, s.cfg.Nplanets, s.opts.CollisionFactor),
		Positions:   append([]mgl64.Vec3(nil), s.state.X...),
	}, nil
}

func (s *Simulation) decide() (physics.Decision, error) {
	switch s.opts.Mode {
	case ModeSun, ModePlanets, ModeFull:
		return physics.Decision{Level: s.fixedLevel(s.cfg), Probe: -1}, nil
	default:
		return s.selector.Select(s.state, s.cfg.Nplanets)
	}
}

func (s *Simulation) fixedLevel(cfg dynamo.RunConfig) dynamo.Level {
	switch s.opts.Mode {
	case ModePlanets:
		return dynamo.LevelPlanets(cfg.Nplanets)
	case ModeFull:
		return dynamo.LevelFull(cfg.N)
	default:
		return dynamo.LevelSunOnly
	}
}

func (s *Simulation) initialLevel(cfg dynamo.RunConfig) dynamo.Level {
	if s.opts.Mode == ModeAdaptive {
		return dynamo.LevelSunOnly
	}
	return s.fixedLevel(cfg)
}
