package metrics

import "github.com/san-kum/jansim/internal/dynamo"

// StanceFraction is the share of samples with the foot on the ground.
type StanceFraction struct {
	name     string
	grounded int
	samples  int
}

func NewStanceFraction() *StanceFraction {
	return &StanceFraction{name: "stance_fraction"}
}

func (f *StanceFraction) Name() string { return f.name }

func (f *StanceFraction) Observe(s *dynamo.Sample) {
	f.samples++
	if s.Contact {
		f.grounded++
	}
}

func (f *StanceFraction) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return float64(f.grounded) / float64(f.samples)
}

func (f *StanceFraction) Reset() {
	f.grounded = 0
	f.samples = 0
}

// CrankWork integrates torque*omega over time, in joules per cycle.
type CrankWork struct {
	name  string
	work  float64
	last  float64
	begun bool
}

func NewCrankWork() *CrankWork {
	return &CrankWork{name: "crank_work"}
}

func (w *CrankWork) Name() string { return w.name }

func (w *CrankWork) Observe(s *dynamo.Sample) {
	if w.begun {
		w.work += s.Torque * s.Omega * (s.Time - w.last)
	}
	w.last = s.Time
	w.begun = true
}

func (w *CrankWork) Value() float64 { return w.work }

func (w *CrankWork) Reset() {
	w.work = 0
	w.last = 0
	w.begun = false
}

// Default returns one of every per-step metric.
func Default() []dynamo.Metric {
	return []dynamo.Metric{
		NewPeakTorque(),
		NewRMSTorque(),
		NewMeanTorque(),
		NewStanceFraction(),
		NewCrankWork(),
	}
}
