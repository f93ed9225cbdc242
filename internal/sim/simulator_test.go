package sim

import (
	"context"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	earthRadius = 4.2588e-5 // au
	leoRadius   = 7e6       // m
	leoSpeed    = 7546.     // m/s
)

func planet(name string, mass, radius float64, x, v mgl64.Vec3) dynamo.Body {
	b := dynamo.Body{Name: name, Color: "#ffffff", Kind: dynamo.Planet}
	b.Init[dynamo.RowAttr] = mgl64.Vec3{mass, radius, 0}
	b.Init[dynamo.RowPosition] = x
	b.Init[dynamo.RowVelocity] = v
	return b
}

// sunEarth is a sun with earth on a circular orbit at 1 au.
func sunEarth() []dynamo.Body {
	u := dynamo.SolarUnits()
	vc := math.Sqrt(u.G * 332946)
	return []dynamo.Body{
		planet("sun", 332946, 0.00465, mgl64.Vec3{}, mgl64.Vec3{}),
		planet("earth", 1, earthRadius, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, vc, 0}),
	}
}

func testOptions(mode Mode) Options {
	opts := DefaultOptions()
	opts.Mode = mode
	opts.Reference = 1
	return opts
}

var _ = Describe("Simulation", func() {
	var (
		ctx context.Context
		cfg dynamo.RunConfig
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = dynamo.RunConfig{Ndays: 10, N: 2, Nplanets: 2, Tstep: 3600}
	})

	Describe("Prepare", func() {
		It("rejects a non-positive time step", func() {
			cfg.Tstep = 0
			err := New(testOptions(ModeAdaptive)).Prepare(cfg, sunEarth())
			Expect(errors.Is(err, dynamo.ErrInvalidConfiguration)).To(BeTrue())
		})

		It("rejects a time step longer than a day", func() {
			cfg.Tstep = 2 * 86400
			err := New(testOptions(ModeAdaptive)).Prepare(cfg, sunEarth())
			Expect(errors.Is(err, dynamo.ErrInvalidConfiguration)).To(BeTrue())
		})

		It("derives steps per day and the initial energy", func() {
			s := New(testOptions(ModeAdaptive))
			Expect(s.Phase()).To(Equal(PhaseIdle))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())

			Expect(s.Phase()).To(Equal(PhasePreparing))
			Expect(s.StepsPerDay()).To(Equal(24))
			Expect(s.Energy().Total).To(BeNumerically("<", 0))
			Expect(s.Energy().Kinetic).To(BeNumerically(">", 0))
			// sun pulls earth towards -x
			Expect(s.State().A[1].X()).To(BeNumerically("<", 0))
		})

		It("does not mutate the catalogue", func() {
			bodies := sunEarth()
			s := New(testOptions(ModeAdaptive))
			Expect(s.Prepare(cfg, bodies)).To(Succeed())
			_, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(bodies[1].Init.Position()).To(Equal(mgl64.Vec3{1, 0, 0}))
		})
	})

	Describe("RunDays", func() {
		It("requires Prepare", func() {
			_, err := New(testOptions(ModeAdaptive)).RunDays(ctx, 1)
			Expect(err).To(MatchError(dynamo.ErrNotPrepared))
		})

		It("records the state at the start of each day", func() {
			s := New(testOptions(ModeAdaptive))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())
			initial := s.Energy()

			h, err := s.RunDays(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Len()).To(Equal(3))
			Expect(h.Levels).To(HaveLen(3))
			Expect(s.Phase()).To(Equal(PhaseDayLoop))

			Expect(h.Positions[0][1]).To(Equal(mgl64.Vec3{1, 0, 0}))
			Expect(h.Energies[0]).To(Equal(initial))
			Expect(h.Positions[1][1].Y()).To(BeNumerically(">", 0))
		})

		It("clamps to the planned day count and finishes", func() {
			s := New(testOptions(ModeAdaptive))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())

			_, err := s.RunDays(ctx, 4)
			Expect(err).NotTo(HaveOccurred())
			h, err := s.RunDays(ctx, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Len()).To(Equal(cfg.Ndays))
			Expect(s.Phase()).To(Equal(PhaseDone))

			_, err = s.RunDays(ctx, 1)
			Expect(err).To(MatchError(dynamo.ErrRunComplete))
			Expect(s.Prepare(cfg, sunEarth())).To(MatchError(dynamo.ErrRunComplete))
		})

		It("uses sun-only fidelity without probes", func() {
			s := New(testOptions(ModeAdaptive))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())
			h, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			for _, k := range h.Levels {
				Expect(k).To(Equal(dynamo.LevelSunOnly))
			}
		})

		It("conserves energy at full fidelity", func() {
			cfg.Ndays = 365
			s := New(testOptions(ModeFull))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())
			w0 := s.Energy().Total

			_, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			drift := math.Abs(s.Energy().Total-w0) / math.Abs(w0)
			Expect(drift).To(BeNumerically("<", 1e-5))
		})

		It("runs no day for a non-positive count and stays open for probes", func() {
			s := New(testOptions(ModeAdaptive))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())

			h, err := s.RunDays(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Len()).To(BeZero())
			_, err = s.RunDays(ctx, -3)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Phase()).To(Equal(PhasePreparing))
		})

		It("reports the energy at the start of each day", func() {
			var reports []dynamo.DayReport
			s := New(testOptions(ModeFull))
			s.AddObserver(dynamo.ObserverFunc(func(r dynamo.DayReport) {
				reports = append(reports, r)
			}))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())
			w0 := s.Energy()

			h, err := s.RunDays(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(reports).To(HaveLen(2))
			Expect(reports[0].StartEnergy).To(Equal(w0))
			Expect(reports[0].StartEnergy).To(Equal(h.Energies[0]))
			Expect(reports[1].StartEnergy).To(Equal(reports[0].Energy))
		})

		It("stops when the context is cancelled", func() {
			s := New(testOptions(ModeAdaptive))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())

			cctx, cancel := context.WithCancel(ctx)
			cancel()
			h, err := s.RunDays(cctx, 5)
			Expect(err).To(MatchError(context.Canceled))
			Expect(h.Len()).To(BeZero())
		})

		It("notifies observers once per day", func() {
			var reports []dynamo.DayReport
			s := New(testOptions(ModeAdaptive))
			s.AddObserver(dynamo.ObserverFunc(func(r dynamo.DayReport) {
				reports = append(reports, r)
			}))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())
			_, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(reports).To(HaveLen(cfg.Ndays))
			Expect(reports[9].Day).To(Equal(9))
			Expect(reports[9].Days).To(Equal(cfg.Ndays))
			Expect(reports[9].Energy).To(Equal(s.Energy()))
		})
	})

	Describe("AddProbes", func() {
		BeforeEach(func() {
			cfg.Ndays = 1
			cfg.Tstep = 60
		})

		It("requires a prepared, unstarted run", func() {
			s := New(testOptions(ModeAdaptive))
			Expect(s.AddProbes(1, leoRadius, leoSpeed)).To(MatchError(dynamo.ErrNotPrepared))

			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())
			_, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.AddProbes(1, leoRadius, leoSpeed)).To(MatchError(dynamo.ErrRunComplete))
		})

		It("rejects a reference that is not a planet", func() {
			opts := testOptions(ModeAdaptive)
			opts.Reference = 5
			s := New(opts)
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())
			err := s.AddProbes(1, leoRadius, leoSpeed)
			Expect(errors.Is(err, dynamo.ErrInvalidConfiguration)).To(BeTrue())
		})

		It("places probes around the reference planet", func() {
			u := dynamo.SolarUnits()
			s := New(testOptions(ModeAdaptive))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())
			Expect(s.AddProbes(2, leoRadius, leoSpeed)).To(Succeed())
			Expect(s.AddProbes(1, 2*leoRadius, leoSpeed)).To(Succeed())

			Expect(s.Config().N).To(Equal(5))
			Expect(s.Config().Nprobes()).To(Equal(3))
			bodies := s.Bodies()
			Expect([]string{bodies[2].Name, bodies[3].Name, bodies[4].Name}).
				To(Equal([]string{"prA", "prB", "prC"}))

			earth := s.State().X[1]
			radii := []float64{leoRadius, leoRadius, 2 * leoRadius}
			for i := 2; i < 5; i++ {
				Expect(bodies[i].Kind).To(Equal(dynamo.Probe))
				Expect(s.State().X[i].Sub(earth).Len()).
					To(BeNumerically("~", u.LengthFromSI(radii[i-2]), 1e-12))
			}
		})

		It("rejects a ring on top of existing probes and keeps the prepared run", func() {
			s := New(testOptions(ModeAdaptive))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())
			Expect(s.AddProbes(1, leoRadius, leoSpeed)).To(Succeed())
			w := s.Energy()

			err := s.AddProbes(1, leoRadius, leoSpeed)
			Expect(errors.Is(err, dynamo.ErrDegenerateGeometry)).To(BeTrue())

			Expect(s.Phase()).To(Equal(PhasePreparing))
			Expect(s.Bodies()).To(HaveLen(3))
			Expect(s.Config().N).To(Equal(3))
			Expect(s.State().Len()).To(Equal(3))
			Expect(s.Energy()).To(Equal(w))

			h, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Len()).To(Equal(1))
		})

		It("rejects a probe on the reference planet without losing the run", func() {
			s := New(testOptions(ModeAdaptive))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())

			err := s.AddProbes(1, 0, 0)
			Expect(errors.Is(err, dynamo.ErrDegenerateGeometry)).To(BeTrue())
			Expect(s.Phase()).To(Equal(PhasePreparing))
			Expect(s.Bodies()).To(HaveLen(2))

			Expect(s.AddProbes(1, leoRadius, leoSpeed)).To(Succeed())
			Expect(s.Bodies()).To(HaveLen(3))
		})

		It("switches to planet fidelity for a probe orbiting earth", func() {
			s := New(testOptions(ModeAdaptive))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())
			Expect(s.AddProbes(1, leoRadius, leoSpeed)).To(Succeed())

			h, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Levels).To(Equal([]dynamo.Level{dynamo.LevelPlanets(2)}))
		})

		It("keeps a fixed fidelity when asked to", func() {
			s := New(testOptions(ModeSun))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())
			Expect(s.AddProbes(1, leoRadius, leoSpeed)).To(Succeed())

			h, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Levels).To(Equal([]dynamo.Level{dynamo.LevelSunOnly}))
		})

		It("reports a probe inside the collision radius", func() {
			var collisions []dynamo.Collision
			s := New(testOptions(ModeAdaptive))
			s.AddObserver(dynamo.ObserverFunc(func(r dynamo.DayReport) {
				collisions = append(collisions, r.Collisions...)
			}))
			Expect(s.Prepare(cfg, sunEarth())).To(Succeed())
			Expect(s.AddProbes(1, leoRadius, leoSpeed)).To(Succeed())

			_, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(collisions).To(HaveLen(1))
			Expect(collisions[0].Planet).To(Equal(1))
			Expect(collisions[0].Probe).To(Equal(2))
			Expect(collisions[0].Distance).To(BeNumerically("<", 2*earthRadius))
		})
	})

	Describe("errors", func() {
		It("aborts with the day and bodies of a degenerate pair", func() {
			opts := testOptions(ModeAdaptive)
			opts.MinSeparation = 1e-3
			bodies := sunEarth()
			pr := dynamo.Body{Name: "prA", Kind: dynamo.Probe}
			pr.Init[dynamo.RowAttr] = mgl64.Vec3{1.2555e-22, 100, 0}
			pr.Init[dynamo.RowPosition] = mgl64.Vec3{1.0001, 0, 0}
			bodies = append(bodies, pr)
			cfg.N = 3

			s := New(opts)
			Expect(s.Prepare(cfg, bodies)).To(Succeed())
			h, err := s.Run(ctx)
			Expect(errors.Is(err, dynamo.ErrDegenerateGeometry)).To(BeTrue())

			var se *dynamo.SimulationError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Day).To(Equal(0))
			Expect(se.Body).To(Equal(2))
			Expect(se.Other).To(Equal(1))
			Expect(h.Len()).To(Equal(1))
			Expect(s.Phase()).To(Equal(PhaseDone))

			_, err = s.RunDays(ctx, 1)
			Expect(errors.Is(err, dynamo.ErrRunComplete)).To(BeTrue())
			Expect(errors.Is(err, dynamo.ErrDegenerateGeometry)).To(BeTrue())
		})
	})
})
