package integrators

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

func ringBodies(n int) []dynamo.Body {
	bodies := make([]dynamo.Body, n)
	bodies[0].Init[dynamo.RowAttr] = mgl64.Vec3{1, 0, 0}
	for i := 1; i < n; i++ {
		d := 0.1 + float64(i)*5.0/float64(n)
		v := math.Sqrt(1.0 / d)
		theta := float64(i) * 2 * math.Pi / float64(n)
		sin, cos := math.Sincos(theta)
		bodies[i].Init[dynamo.RowAttr] = mgl64.Vec3{1e-7, 0, 0}
		bodies[i].Init[dynamo.RowPosition] = mgl64.Vec3{d * cos, d * sin, 0}
		bodies[i].Init[dynamo.RowVelocity] = mgl64.Vec3{-v * sin, v * cos, 0}
	}
	return bodies
}

func benchmarkVerlet(b *testing.B, n int) {
	s := dynamo.NewState(ringBodies(n))
	f := field(s, 1)
	integ := NewVerlet(0.001)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = integ.Step(s, f)
	}
}

func BenchmarkVerlet_NBody10(b *testing.B)  { benchmarkVerlet(b, 10) }
func BenchmarkVerlet_NBody100(b *testing.B) { benchmarkVerlet(b, 100) }
