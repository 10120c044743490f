package metrics

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/jansim/internal/dynamo"
)

// Range is the extent and mean of one series.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

func (r Range) Span() float64 { return r.Max - r.Min }

func newRange(v []float64) Range {
	if len(v) == 0 {
		return Range{}
	}
	return Range{
		Min:  floats.Min(v),
		Max:  floats.Max(v),
		Mean: floats.Sum(v) / float64(len(v)),
	}
}

// Summary describes a finished run.
type Summary struct {
	Steps  int   `json:"steps"`
	Torque Range `json:"torque"`
	FootX  Range `json:"foot_x"`
	FootY  Range `json:"foot_y"`
	Omega  Range `json:"omega"`
	Stance int   `json:"stance_steps"`
	PeakAt int   `json:"peak_step"`
}

// Summarize computes series statistics over samples.
func Summarize(samples []dynamo.Sample) Summary {
	torque := lo.Map(samples, func(s dynamo.Sample, _ int) float64 { return s.Torque })
	fx := lo.Map(samples, func(s dynamo.Sample, _ int) float64 { return s.Foot().Pos.X })
	fy := lo.Map(samples, func(s dynamo.Sample, _ int) float64 { return s.Foot().Pos.Y })
	omega := lo.Map(samples, func(s dynamo.Sample, _ int) float64 { return s.Omega })

	sum := Summary{
		Steps:  len(samples),
		Torque: newRange(torque),
		FootX:  newRange(fx),
		FootY:  newRange(fy),
		Omega:  newRange(omega),
		Stance: lo.CountBy(samples, func(s dynamo.Sample) bool { return s.Contact }),
	}
	if len(samples) > 0 {
		abs := lo.Map(torque, func(v float64, _ int) float64 {
			if v < 0 {
				return -v
			}
			return v
		})
		sum.PeakAt = samples[floats.MaxIdx(abs)].Step
	}
	return sum
}
