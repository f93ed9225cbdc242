// Package catalog provides a built-in approximate solar system.
package catalog

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

type entry struct {
	name      string
	color     string
	mass      float64 // kg
	radius    float64 // km
	distance  float64 // km, mean distance from the sun
	longitude float64 // deg, J2000 mean longitude
}

var solar = []entry{
	{"sun", "#ffdd33", 1.9891e30, 695700, 0, 0},
	{"mercury", "#a9a9a9", 3.3011e23, 2439.7, 57.909e6, 252.25},
	{"venus", "#e3bb76", 4.8675e24, 6051.8, 108.209e6, 181.98},
	{"earth", "#2e6fd8", 5.9724e24, 6371.0, 149.598e6, 100.46},
	{"mars", "#c1440e", 6.4171e23, 3389.5, 227.939e6, 355.45},
	{"jupiter", "#d8ca9d", 1.8982e27, 69911, 778.57e6, 34.40},
	{"saturn", "#e3e0c0", 5.6834e26, 58232, 1433.53e6, 49.94},
	{"uranus", "#7fd1e3", 8.6810e25, 25362, 2872.46e6, 313.23},
	{"neptune", "#3f54ba", 1.02413e26, 24622, 4495.06e6, 304.88},
}

// Earth is the index of earth in SolarSystem.
const Earth = 3

// Names lists the bodies of SolarSystem in order.
func Names() []string {
	names := make([]string, len(solar))
	for i, e := range solar {
		names[i] = e.name
	}
	return names
}

// SolarSystem returns the sun at rest at the origin followed by the eight
// planets on circular orbits in the z = 0 plane.
func SolarSystem(u dynamo.Units) []dynamo.Body {
	bodies := make([]dynamo.Body, len(solar))
	msun := u.MassFromSI(solar[0].mass)

	for i, e := range solar {
		b := dynamo.Body{Name: e.name, Color: e.color, Kind: dynamo.Planet}
		m := u.MassFromSI(e.mass)
		b.Init[dynamo.RowAttr] = mgl64.Vec3{m, u.LengthFromSI(e.radius * 1e3), 0}

		if e.distance > 0 {
			r := u.LengthFromSI(e.distance * 1e3)
			v := math.Sqrt(u.G * (msun + m) / r)
			sin, cos := math.Sincos(mgl64.DegToRad(e.longitude))
			b.Init[dynamo.RowPosition] = mgl64.Vec3{r * cos, r * sin, 0}
			b.Init[dynamo.RowVelocity] = mgl64.Vec3{-v * sin, v * cos, 0}
		}
		bodies[i] = b
	}
	return bodies
}

// Config returns a run configuration for SolarSystem.
func Config(days int, tstep float64) dynamo.RunConfig {
	return dynamo.RunConfig{Ndays: days, N: len(solar), Nplanets: len(solar), Tstep: tstep}
}
