package sim

import (
	"github.com/samber/lo"

	"github.com/san-kum/jansim/internal/dynamo"
	"github.com/san-kum/jansim/internal/gait"
)

// Result is one integrated gait cycle.
type Result struct {
	Phase    gait.Phase
	Timing   gait.Timing
	StepSize float64
	Samples  []dynamo.Sample
	Metrics  map[string]float64
}

func (r *Result) Times() []float64 {
	return lo.Map(r.Samples, func(s dynamo.Sample, _ int) float64 { return s.Time })
}

func (r *Result) Torques() []float64 {
	return lo.Map(r.Samples, func(s dynamo.Sample, _ int) float64 { return s.Torque })
}

func (r *Result) FootPath() []dynamo.Vec2 {
	return lo.Map(r.Samples, func(s dynamo.Sample, _ int) dynamo.Vec2 { return s.Foot().Pos })
}
