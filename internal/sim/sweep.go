package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/jansim/internal/config"
	"github.com/san-kum/jansim/internal/dynamo"
	"github.com/san-kum/jansim/internal/metrics"
)

// SweepPoint summarises one target speed.
type SweepPoint struct {
	Speed          float64 `json:"speed"`
	Cycle          float64 `json:"cycle_time"`
	GroundVelocity float64 `json:"ground_velocity"`
	FlightVelocity float64 `json:"flight_velocity"`
	PeakTorque     float64 `json:"peak_torque"`
	RMSTorque      float64 `json:"rms_torque"`
	CrankWork      float64 `json:"crank_work"`
}

// Sweep integrates one cycle per target speed. The contact sweep does not
// depend on speed and runs once; the cycles run concurrently. Points are
// returned in the order of speeds.
func Sweep(ctx context.Context, cfg *config.Config, speeds []float64) ([]SweepPoint, error) {
	if len(speeds) == 0 {
		return nil, fmt.Errorf("%w: no speeds to sweep", dynamo.ErrConfig)
	}

	base, err := New(cfg)
	if err != nil {
		return nil, err
	}
	phase, err := base.Detect(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(speeds))
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Numerics.Workers > 0 {
		g.SetLimit(cfg.Numerics.Workers)
	}

	for i, speed := range speeds {
		g.Go(func() error {
			c := cfg.Clone()
			c.Gait.TargetSpeed = speed

			s, err := New(c)
			if err != nil {
				return fmt.Errorf("speed %g: %w", speed, err)
			}
			peak, rms, work := metrics.NewPeakTorque(), metrics.NewRMSTorque(), metrics.NewCrankWork()
			s.AddMetric(peak)
			s.AddMetric(rms)
			s.AddMetric(work)

			res, err := s.RunPhase(ctx, phase)
			if err != nil {
				return fmt.Errorf("speed %g: %w", speed, err)
			}

			points[i] = SweepPoint{
				Speed:          speed,
				Cycle:          res.Timing.Cycle,
				GroundVelocity: res.Timing.GroundVelocity,
				FlightVelocity: res.Timing.FlightVelocity,
				PeakTorque:     peak.Value(),
				RMSTorque:      rms.Value(),
				CrankWork:      work.Value(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
