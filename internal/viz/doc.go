// Package viz renders run progress in the terminal.
//
// [Progress] is a Bubble Tea model fed by a [Reporter], which is attached to
// a simulation as an observer. Each frame shows the day counter, the
// fidelity level, an energy chart and a top-down [Canvas] of the bodies.
//
// # Key Bindings
//
//	Q, Ctrl+C - Stop the run and quit
//	O         - Toggle the orbit view
package viz
