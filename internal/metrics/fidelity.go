package metrics

import "github.com/san-kum/orbitsim/internal/dynamo"

// FidelityShare is the fraction of days that ran above sun-only fidelity.
type FidelityShare struct {
	name    string
	high    int
	samples int
}

func NewFidelityShare() *FidelityShare {
	return &FidelityShare{name: "high_fidelity_share"}
}

func (f *FidelityShare) Name() string { return f.name }

func (f *FidelityShare) OnDay(r dynamo.DayReport) {
	f.samples++
	if r.Level > dynamo.LevelSunOnly {
		f.high++
	}
}

func (f *FidelityShare) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return float64(f.high) / float64(f.samples)
}

func (f *FidelityShare) Reset() {
	f.high = 0
	f.samples = 0
}
