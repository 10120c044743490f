package sim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/jansim/internal/config"
	"github.com/san-kum/jansim/internal/dynamo"
	"github.com/san-kum/jansim/internal/gait"
	"github.com/san-kum/jansim/internal/integrators"
	"github.com/san-kum/jansim/internal/linkage"
	"github.com/san-kum/jansim/internal/physics"
)

var log = logrus.WithField("component", "sim")

type Simulator struct {
	cfg       *config.Config
	geo       *linkage.Geometry
	model     *linkage.Model
	solver    *physics.Solver
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

// New validates cfg and builds the geometry, kinematic model and solver.
func New(cfg *config.Config) (*Simulator, error) {
	geo, err := linkage.NewGeometry(cfg)
	if err != nil {
		return nil, err
	}
	model, err := linkage.NewDefaultModel(geo)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		cfg:       cfg,
		geo:       geo,
		model:     model,
		solver:    physics.NewSolver(geo, cfg.Numerics.SingularTolerance),
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}, nil
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Geometry() *linkage.Geometry { return s.geo }
func (s *Simulator) Model() *linkage.Model       { return s.model }
func (s *Simulator) Config() *config.Config      { return s.cfg }

// Detect sweeps one rotation for the ground-contact interval.
func (s *Simulator) Detect(ctx context.Context) (gait.Phase, error) {
	d := gait.NewDetector(s.model, s.cfg.ContactThreshold(), s.cfg.Numerics.SweepSteps, s.cfg.Numerics.Workers)
	phase, err := d.Detect(ctx)
	if err != nil {
		return gait.Phase{}, fmt.Errorf("contact sweep: %w", err)
	}
	log.WithFields(logrus.Fields{
		"theta_contact": phase.Contact,
		"theta_liftoff": phase.Liftoff,
		"stride":        phase.StrideLength,
	}).Debug("contact phase found")
	return phase, nil
}

// Plan converts phase into the crank schedule for the configured gait.
func (s *Simulator) Plan(phase gait.Phase) (gait.Timing, error) {
	return gait.Plan(phase, s.cfg.Gait.TargetSpeed, s.cfg.Gait.DutyFactor)
}

// Run detects contact, plans the gait and integrates one cycle.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	phase, err := s.Detect(ctx)
	if err != nil {
		log.WithError(err).Error("contact detection failed")
		return nil, err
	}
	return s.RunPhase(ctx, phase)
}

// RunPhase plans and integrates from an already detected phase.
func (s *Simulator) RunPhase(ctx context.Context, phase gait.Phase) (*Result, error) {
	timing, err := s.Plan(phase)
	if err != nil {
		log.WithError(err).Error("gait planning failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"steps":  s.cfg.Numerics.Steps,
		"speed":  s.cfg.Gait.TargetSpeed,
		"stride": phase.StrideLength,
		"cycle":  timing.Cycle,
	}).Info("integrating gait cycle")

	for _, m := range s.metrics {
		m.Reset()
	}

	samples, err := s.Integrate(ctx, phase, timing)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Phase:    phase,
		Timing:   timing,
		StepSize: timing.StepSize(s.cfg.Numerics.Steps),
		Samples:  samples,
		Metrics:  make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.WithField("samples", len(samples)).Info("gait cycle complete")
	return result, nil
}

// Integrate steps one cycle from first ground contact. Joint rates at each
// step are differenced from the two previous angles re-evaluated on the
// current angle's polynomial branch, so crossing theta = 0 adds no spike. The
// first failing step aborts the run and is logged once.
func (s *Simulator) Integrate(ctx context.Context, phase gait.Phase, timing gait.Timing) ([]dynamo.Sample, error) {
	n := s.cfg.Numerics.Steps
	if n < 1 {
		return nil, fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrConfig, n)
	}

	h := timing.StepSize(n)
	threshold := s.cfg.ContactThreshold()
	diff := integrators.NewBackward(h)
	samples := make([]dynamo.Sample, n)

	first := &samples[0]
	first.Theta = phase.Contact
	first.Omega = timing.GroundVelocity
	s.place(first)
	if err := s.finish(first, threshold); err != nil {
		return nil, err
	}

	for i := 1; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		prev, cur := &samples[i-1], &samples[i]
		cur.Step = i
		cur.Time = float64(i) * h

		cur.Omega = timing.FlightVelocity
		if prev.Foot().Pos.Y <= threshold {
			cur.Omega = timing.GroundVelocity
		}
		cur.Theta = prev.Theta - cur.Omega*h
		cur.Alpha = diff.Rate(cur.Omega, prev.Omega)

		if cur.Omega != prev.Omega {
			log.WithFields(logrus.Fields{"step": i, "theta": cur.Theta, "omega": cur.Omega}).Debug("phase change")
		}

		s.place(cur)
		var back2 linkage.Joints
		if i > 1 {
			back2 = s.model.PositionsNear(samples[i-2].Theta, cur.Theta)
		}
		diff.Joints(&cur.Joints, s.model.PositionsNear(prev.Theta, cur.Theta), back2, i > 1)

		if err := s.finish(cur, threshold); err != nil {
			return nil, err
		}
	}

	return samples, nil
}

// place evaluates joint positions at the sample's angle.
func (s *Simulator) place(sm *dynamo.Sample) {
	pos := s.model.Positions(sm.Theta)
	for j := range sm.Joints {
		sm.Joints[j].Pos = pos[j]
	}
}

// finish solves the reaction chain for a placed, differentiated sample and
// hands it to metrics and observers.
func (s *Simulator) finish(sm *dynamo.Sample, threshold float64) error {
	sm.Contact = sm.Foot().Pos.Y <= threshold

	r, torque, err := s.solver.Solve(sm.Theta, &sm.Joints, sm.Contact)
	if err == nil && !sm.IsValid() {
		err = fmt.Errorf("%w: non-finite kinematics", dynamo.ErrDomain)
	}
	if err != nil {
		return s.fail(sm, err)
	}
	sm.Reactions = r
	sm.Torque = torque

	for _, m := range s.metrics {
		m.Observe(sm)
	}
	for _, o := range s.observers {
		o.OnStep(sm)
	}
	return nil
}

func (s *Simulator) fail(sm *dynamo.Sample, err error) error {
	serr := &dynamo.SimulationError{Step: sm.Step, Time: sm.Time, Theta: sm.Theta, Wrapped: err}
	log.WithFields(logrus.Fields{
		"step":  sm.Step,
		"time":  sm.Time,
		"theta": sm.Theta,
	}).WithError(err).Error("step failed, aborting run")
	return serr
}
