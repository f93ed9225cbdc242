package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	ProbeMassKg   = 750.
	ProbeFuelDays = 100.
	ProbeColor    = "#aaaaaa"
)

// ProbeRing places count probes evenly on a circle of radius r0 (metres)
// around ref, in the plane z = ref.z, each moving tangentially at v0 (m/s)
// relative to ref. first is the index used to name the first probe.
func ProbeRing(ref dynamo.Body, count int, r0, v0 float64, u dynamo.Units, first int) []dynamo.Body {
	if count <= 0 {
		return nil
	}
	r := u.LengthFromSI(r0)
	v := u.SpeedFromSI(v0)
	pos := ref.Init.Position()
	vel := ref.Init.Velocity()

	probes := make([]dynamo.Body, count)
	for i := range probes {
		theta := 2 * math.Pi * float64(i) / float64(count)
		sin, cos := math.Sincos(theta)

		b := dynamo.Body{
			Name:  ProbeName(first + i),
			Color: ProbeColor,
			Kind:  dynamo.Probe,
		}
		b.Init[dynamo.RowAttr] = mgl64.Vec3{u.MassFromSI(ProbeMassKg), ProbeFuelDays, 0}
		b.Init[dynamo.RowPosition] = pos.Add(mgl64.Vec3{r * cos, r * sin, 0})
		b.Init[dynamo.RowVelocity] = vel.Add(mgl64.Vec3{-v * sin, v * cos, 0})
		probes[i] = b
	}
	return probes
}

// ProbeName returns prA, prB, ..., prZ, prAA, prAB, ...
func ProbeName(i int) string {
	var letters []byte
	for i++; i > 0; i = (i - 1) / 26 {
		letters = append([]byte{byte('A' + (i-1)%26)}, letters...)
	}
	return "pr" + string(letters)
}
