package gait

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/jansim/internal/dynamo"
	"github.com/san-kum/jansim/internal/linkage"
)

// Phase is the ground-contact interval of one crank rotation.
type Phase struct {
	Contact      float64 `json:"theta_contact"`
	Liftoff      float64 `json:"theta_liftoff"`
	ContactIndex int     `json:"contact_index"`
	LiftoffIndex int     `json:"liftoff_index"`
	StrideLength float64 `json:"stride_length"`
	Threshold    float64 `json:"threshold"`
}

// Span is the crank angle swept while the foot is grounded.
func (p Phase) Span() float64 { return math.Abs(p.Contact - p.Liftoff) }

// Detector sweeps the foot over one clockwise rotation, from 2pi down to 0.
type Detector struct {
	model     *linkage.Model
	threshold float64
	steps     int
	workers   int
}

func NewDetector(model *linkage.Model, threshold float64, steps, workers int) *Detector {
	return &Detector{model: model, threshold: threshold, steps: steps, workers: workers}
}

// SweepAngle is the crank angle of sweep index i.
func (d *Detector) SweepAngle(i int) float64 {
	return 2 * math.Pi * float64(d.steps-i) / float64(d.steps)
}

// Detect finds the first sample at or below the threshold and the first later
// sample back at or above it. Samples are evaluated in parallel; the crossing
// search runs in index order afterwards, so the result equals a sequential scan.
func (d *Detector) Detect(ctx context.Context) (Phase, error) {
	if d.steps < 2 {
		return Phase{}, fmt.Errorf("%w: sweep steps must be at least 2, got %d", dynamo.ErrConfig, d.steps)
	}

	feet := make([]dynamo.Vec2, d.steps)
	dynamo.ParallelFor(d.steps, 4096, d.workers, func(start, end int) {
		for i := start; i < end; i++ {
			feet[i] = d.model.Foot(d.SweepAngle(i))
		}
	})

	if err := ctx.Err(); err != nil {
		return Phase{}, err
	}

	begin, end := -1, -1
	for i, f := range feet {
		if begin == -1 && f.Y <= d.threshold {
			begin = i
		} else if begin != -1 && f.Y >= d.threshold {
			end = i
			break
		}
	}

	if begin == -1 {
		return Phase{}, fmt.Errorf("%w: foot never reached y <= %.6f in %d samples", dynamo.ErrNoContact, d.threshold, d.steps)
	}
	if end == -1 {
		return Phase{}, fmt.Errorf("%w: foot never lifted above y = %.6f after contact at theta=%.6f",
			dynamo.ErrNoContact, d.threshold, d.SweepAngle(begin))
	}

	return Phase{
		Contact:      d.SweepAngle(begin),
		Liftoff:      d.SweepAngle(end),
		ContactIndex: begin,
		LiftoffIndex: end,
		StrideLength: feet[begin].X - feet[end].X,
		Threshold:    d.threshold,
	}, nil
}
