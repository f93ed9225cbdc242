// Package physics evaluates gravity for an orbit simulation.
//
// The package provides the pieces of a simulated day that look at the
// runtime state without advancing it:
//
//   - [Gravity]: pairwise Newtonian acceleration at a fidelity [dynamo.Level]
//   - [Selector]: the adaptive choice between sun-only and planet fidelity
//   - [DetectCollisions]: planet/probe proximity reports
//   - [ProbeRing]: initial conditions for probes launched around a planet
//
// # Fidelity
//
// At [dynamo.LevelSunOnly] probes feel only body 0. Any other level makes
// every body interact with all lower-indexed bodies, so probe-probe gravity
// is included there:
//
//	g := physics.NewGravity(units.G)
//	err := g.AccelerateState(state, nplanets, dynamo.LevelPlanets(nplanets))
package physics
