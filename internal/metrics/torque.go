package metrics

import (
	"math"

	"github.com/san-kum/jansim/internal/dynamo"
)

// PeakTorque is the largest |torque| seen.
type PeakTorque struct {
	name string
	peak float64
}

func NewPeakTorque() *PeakTorque {
	return &PeakTorque{name: "peak_torque"}
}

func (p *PeakTorque) Name() string { return p.name }

func (p *PeakTorque) Observe(s *dynamo.Sample) {
	p.peak = math.Max(p.peak, math.Abs(s.Torque))
}

func (p *PeakTorque) Value() float64 { return p.peak }

func (p *PeakTorque) Reset() { p.peak = 0 }

type RMSTorque struct {
	name    string
	sumSq   float64
	samples int
}

func NewRMSTorque() *RMSTorque {
	return &RMSTorque{name: "rms_torque"}
}

func (r *RMSTorque) Name() string { return r.name }

func (r *RMSTorque) Observe(s *dynamo.Sample) {
	r.sumSq += s.Torque * s.Torque
	r.samples++
}

func (r *RMSTorque) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sumSq / float64(r.samples))
}

func (r *RMSTorque) Reset() {
	r.sumSq = 0
	r.samples = 0
}

type MeanTorque struct {
	name    string
	sum     float64
	samples int
}

func NewMeanTorque() *MeanTorque {
	return &MeanTorque{name: "mean_torque"}
}

func (m *MeanTorque) Name() string { return m.name }

func (m *MeanTorque) Observe(s *dynamo.Sample) {
	m.sum += s.Torque
	m.samples++
}

func (m *MeanTorque) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanTorque) Reset() {
	m.sum = 0
	m.samples = 0
}
