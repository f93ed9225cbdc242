package metrics

import "github.com/san-kum/orbitsim/internal/dynamo"

// CollisionCount counts collision reports over a run.
type CollisionCount struct {
	name  string
	count int
}

func NewCollisionCount() *CollisionCount {
	return &CollisionCount{name: "collisions"}
}

func (c *CollisionCount) Name() string { return c.name }

func (c *CollisionCount) OnDay(r dynamo.DayReport) {
	c.count += len(r.Collisions)
}

func (c *CollisionCount) Value() float64 { return float64(c.count) }

func (c *CollisionCount) Reset() { c.count = 0 }
