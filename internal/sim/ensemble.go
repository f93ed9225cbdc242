package sim

import (
	"context"
	"runtime"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Launch describes a ring of probes added before a run.
type Launch struct {
	Count  int
	Radius float64 // m
	Speed  float64 // m/s
}

// Variant is one member of an Ensemble.
type Variant struct {
	Name    string
	Options Options
	Launch  Launch
}

// Outcome summarizes a finished variant.
type Outcome struct {
	Name       string
	Metrics    map[string]float64
	Collisions []dynamo.Collision
	Record     *dynamo.Record
	Err        error
}

// Ensemble runs independent variants of one catalogue concurrently, one
// goroutine per variant. Each variant owns its own Simulation.
type Ensemble struct {
	cfg      dynamo.RunConfig
	bodies   []dynamo.Body
	variants []Variant
	limit    int
}

func NewEnsemble(cfg dynamo.RunConfig, bodies []dynamo.Body, variants ...Variant) *Ensemble {
	return &Ensemble{cfg: cfg, bodies: bodies, variants: variants, limit: runtime.GOMAXPROCS(0)}
}

// SetLimit caps the number of variants running at once.
func (e *Ensemble) SetLimit(n int) {
	if n > 0 {
		e.limit = n
	}
}

// Run runs every variant. A failing variant is reported in its Outcome and
// does not stop the others; only context cancellation is returned as error.
func (e *Ensemble) Run(ctx context.Context) ([]Outcome, error) {
	outcomes := make([]Outcome, len(e.variants))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i, v := range e.variants {
		g.Go(func() error {
			outcomes[i] = e.runVariant(ctx, v)
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func (e *Ensemble) runVariant(ctx context.Context, v Variant) Outcome {
	out := Outcome{Name: v.Name}

	s := New(v.Options)
	ms := metrics.Defaults()
	for _, m := range ms {
		s.AddObserver(m)
	}
	s.AddObserver(dynamo.ObserverFunc(func(r dynamo.DayReport) {
		out.Collisions = append(out.Collisions, r.Collisions...)
	}))

	if out.Err = s.Prepare(e.cfg, e.bodies); out.Err != nil {
		return out
	}
	if v.Launch.Count > 0 {
		if out.Err = s.AddProbes(v.Launch.Count, v.Launch.Radius, v.Launch.Speed); out.Err != nil {
			return out
		}
	}

	_, out.Err = s.Run(ctx)
	out.Metrics = metrics.Collect(ms)
	out.Record = s.Record()
	return out
}
