// Package dynamo provides the core data model of an orbit simulation.
//
// The package defines the catalogue and runtime types shared by the
// physics, integration and bookkeeping packages:
//
//   - [Body]: a catalogued planet or probe with its initial conditions
//   - [RunConfig]: day count, body counts and the time step of a run
//   - [State]: per-body mass, position, velocity and acceleration arrays
//   - [History]: append-only per-day snapshots of a run
//   - [Level]: interaction fidelity used by force evaluation
//
// # Example
//
//	cfg := dynamo.RunConfig{Ndays: 365, N: len(bodies), Nplanets: 9, Tstep: 10}
//	if err := cfg.ValidateBodies(bodies); err != nil {
//	    return err
//	}
//	state := dynamo.NewState(bodies)
//
// # Thread Safety
//
// A [State] is owned by exactly one run driver and is NOT safe for
// concurrent use. Snapshots stored in a [History] are deep copies.
package dynamo
