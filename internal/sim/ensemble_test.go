package sim

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

var _ = Describe("Ensemble", func() {
	cfg := dynamo.RunConfig{Ndays: 2, N: 2, Nplanets: 2, Tstep: 60}

	It("runs every variant independently", func() {
		bad := testOptions(ModeAdaptive)
		bad.Reference = 7

		e := NewEnsemble(cfg, sunEarth(),
			Variant{Name: "bare", Options: testOptions(ModeAdaptive)},
			Variant{Name: "leo", Options: testOptions(ModeAdaptive), Launch: Launch{Count: 1, Radius: leoRadius, Speed: leoSpeed}},
			Variant{Name: "bad", Options: bad, Launch: Launch{Count: 1, Radius: leoRadius, Speed: leoSpeed}},
		)
		e.SetLimit(2)

		outcomes, err := e.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(outcomes).To(HaveLen(3))

		Expect(outcomes[0].Name).To(Equal("bare"))
		Expect(outcomes[0].Err).NotTo(HaveOccurred())
		Expect(outcomes[0].Record.History.Len()).To(Equal(2))
		Expect(outcomes[0].Metrics).To(HaveKeyWithValue("collisions", 0.0))

		Expect(outcomes[1].Err).NotTo(HaveOccurred())
		Expect(outcomes[1].Record.Config.N).To(Equal(3))
		Expect(outcomes[1].Collisions).NotTo(BeEmpty())
		Expect(outcomes[1].Metrics["high_fidelity_share"]).To(BeNumerically(">", 0))

		Expect(errors.Is(outcomes[2].Err, dynamo.ErrInvalidConfiguration)).To(BeTrue())
	})

	It("returns the context error when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		e := NewEnsemble(cfg, sunEarth(), Variant{Name: "bare", Options: testOptions(ModeAdaptive)})
		_, err := e.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})
})
