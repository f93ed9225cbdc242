// Package rundata reads and writes run files.
//
// A run file is line oriented text. Lines starting with '#' are comments and
// a line "*S" opens section S:
//
//	*P  Ndays N Nplanets Tstep
//	*B  name color kind, then the 15 numbers of the init block row by row
//	*V  one row per day, the N velocity vectors
//	*W  one row per day, total kinetic potential energy
//	*X  one row per day, the N position vectors
//	*L  one row per day, the fidelity level
//
// Fields are tab separated. A catalogue is a run file without day rows.
package rundata
