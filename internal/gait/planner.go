package gait

import (
	"fmt"
	"math"

	"github.com/san-kum/jansim/internal/dynamo"
)

// Timing is the two-phase crank schedule for one gait cycle.
type Timing struct {
	CycleDistance  float64 `json:"cycle_distance"`
	Cycle          float64 `json:"cycle_time"`
	Stance         float64 `json:"stance_time"`
	Flight         float64 `json:"flight_time"`
	GroundVelocity float64 `json:"ground_velocity"`
	FlightVelocity float64 `json:"flight_velocity"`
}

// Plan converts a contact phase into crank velocities. The stride covers
// dutyFactor of the full cycle distance, and the foot is grounded for
// dutyFactor of the cycle time.
func Plan(phase Phase, speed, dutyFactor float64) (Timing, error) {
	if phase.StrideLength <= 0 {
		return Timing{}, fmt.Errorf("%w: stride length must be positive, got %g", dynamo.ErrConfig, phase.StrideLength)
	}
	if speed <= 0 {
		return Timing{}, fmt.Errorf("%w: target speed must be positive, got %g", dynamo.ErrConfig, speed)
	}
	if dutyFactor <= 0 || dutyFactor >= 1 {
		return Timing{}, fmt.Errorf("%w: duty factor must be in (0, 1), got %g", dynamo.ErrConfig, dutyFactor)
	}

	span := phase.Span()
	if span <= 0 || span >= 2*math.Pi {
		return Timing{}, fmt.Errorf("%w: contact span must be in (0, 2pi), got %g", dynamo.ErrConfig, span)
	}

	t := Timing{CycleDistance: phase.StrideLength / dutyFactor}
	t.Cycle = t.CycleDistance / speed
	t.Stance = t.Cycle * dutyFactor
	t.Flight = t.Cycle * (1 - dutyFactor)
	t.GroundVelocity = span / t.Stance
	t.FlightVelocity = (2*math.Pi - span) / t.Flight
	return t, nil
}

// StepSize is the integration step for a cycle split into steps samples.
func (t Timing) StepSize(steps int) float64 {
	return t.Cycle / float64(steps)
}
