package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	testG      = 8.8897235e-10
	sunMass    = 332946.
	jupiterM   = 317.8
	probeMass  = 1.2555e-22
	earthRad   = 4.2635e-5
	jupiterRad = 4.7789e-4
)

func body(name string, kind dynamo.Kind, mass, secondary float64, pos, vel mgl64.Vec3) dynamo.Body {
	b := dynamo.Body{Name: name, Kind: kind}
	b.Init[dynamo.RowAttr] = mgl64.Vec3{mass, secondary, 0}
	b.Init[dynamo.RowPosition] = pos
	b.Init[dynamo.RowVelocity] = vel
	return b
}

// jovianSystem returns sun, jupiter at 5.2 au and the given probes.
func jovianSystem(probes ...mgl64.Vec3) []dynamo.Body {
	bodies := []dynamo.Body{
		body("sun", dynamo.Planet, sunMass, 0.00465, mgl64.Vec3{}, mgl64.Vec3{}),
		body("jupiter", dynamo.Planet, jupiterM, jupiterRad, mgl64.Vec3{5.2, 0, 0}, mgl64.Vec3{0, 0.00757, 0}),
	}
	for i, p := range probes {
		bodies = append(bodies, body(ProbeName(i), dynamo.Probe, probeMass, ProbeFuelDays, p, mgl64.Vec3{}))
	}
	return bodies
}
