package physics

import "github.com/san-kum/orbitsim/internal/dynamo"

// DefaultCollisionFactor scales a planet radius into its collision radius.
const DefaultCollisionFactor = 2.0

// DetectCollisions reports every probe closer to a planet than factor times
// the planet radius. The state is not modified.
func DetectCollisions(s *dynamo.State, bodies []dynamo.Body, nplanets int, factor float64) []dynamo.Collision {
	var out []dynamo.Collision
	n := s.Len()
	for i := 0; i < nplanets && i < n; i++ {
		limit := factor * bodies[i].Radius()
		if limit <= 0 {
			continue
		}
		for j := nplanets; j < n; j++ {
			d := s.X[j].Sub(s.X[i]).Len()
			if d < limit {
				out = append(out, dynamo.Collision{Planet: i, Probe: j, Distance: d})
			}
		}
	}
	return out
}
