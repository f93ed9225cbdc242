package integrators

import (
	"errors"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Accelerator recomputes s.A from the current positions.
type Accelerator interface {
	Accelerate(s *dynamo.State) error
}

// AcceleratorFunc adapts a function to Accelerator.
type AcceleratorFunc func(s *dynamo.State) error

func (f AcceleratorFunc) Accelerate(s *dynamo.State) error { return f(s) }

// Verlet advances a state with the velocity Verlet scheme. The force must
// not depend on velocity.
type Verlet struct {
	Dt float64
}

func NewVerlet(dt float64) *Verlet {
	return &Verlet{Dt: dt}
}

// Step advances s by one time step and evaluates the force once.
//
//	x(t+dt)   = x(t) + v(t) dt + a(t) dt²/2
//	v(t+dt/2) = v(t) + a(t) dt/2
//	a(t+dt)   = f(x(t+dt))
//	v(t+dt)   = v(t+dt/2) + a(t+dt) dt/2
func (v *Verlet) Step(s *dynamo.State, force Accelerator) error {
	dt := v.Dt
	halfDt := 0.5 * dt
	halfDt2 := halfDt * dt

	for i := range s.X {
		s.X[i] = s.X[i].Add(s.V[i].Mul(dt)).Add(s.A[i].Mul(halfDt2))
		s.V[i] = s.V[i].Add(s.A[i].Mul(halfDt))
	}

	if err := force.Accelerate(s); err != nil {
		return err
	}

	for i := range s.V {
		s.V[i] = s.V[i].Add(s.A[i].Mul(halfDt))
	}
	return nil
}

// Integrate performs steps Verlet steps and stops at the first step that
// fails or leaves a non-finite position or velocity.
func (v *Verlet) Integrate(s *dynamo.State, force Accelerator, steps int) error {
	for step := 0; step < steps; step++ {
		if err := v.Step(s, force); err != nil {
			return atStep(err, step)
		}
		if body := s.CheckFinite(); body >= 0 {
			err := dynamo.NewSimulationError(dynamo.ErrNumericOverflow)
			err.Step, err.Body = step, body
			return err
		}
	}
	return nil
}

// StepsPerDay is the number of whole steps of tstep seconds in one internal
// time unit. A remainder is dropped.
func StepsPerDay(u dynamo.Units, tstep float64) int {
	if tstep <= 0 {
		return 0
	}
	return int(u.Time / tstep)
}

func atStep(err error, step int) error {
	var se *dynamo.SimulationError
	if errors.As(err, &se) {
		se.Step = step
		return err
	}
	se = dynamo.NewSimulationError(err)
	se.Step = step
	return se
}
