package sim_test

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/jansim/internal/config"
	"github.com/san-kum/jansim/internal/dynamo"
	"github.com/san-kum/jansim/internal/gait"
	"github.com/san-kum/jansim/internal/metrics"
	"github.com/san-kum/jansim/internal/sim"
)

type recorder struct {
	steps []int
}

func (r *recorder) OnStep(s *dynamo.Sample) { r.steps = append(r.steps, s.Step) }

var _ = Describe("Simulator", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.GetPreset("quick")
	})

	Describe("one cycle at 0.3 m/s", func() {
		var (
			result *sim.Result
			rec    *recorder
			peak   *metrics.PeakTorque
		)

		BeforeEach(func() {
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			rec = &recorder{}
			peak = metrics.NewPeakTorque()
			s.AddObserver(rec)
			s.AddMetric(peak)

			result, err = s.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
		})

		It("writes one finite sample per step", func() {
			Expect(result.Samples).To(HaveLen(1000))
			for i := range result.Samples {
				Expect(result.Samples[i].IsValid()).To(BeTrue(), "step %d", i)
				Expect(result.Samples[i].Step).To(Equal(i))
			}
		})

		It("seeds step 0 at first contact", func() {
			first := result.Samples[0]
			Expect(first.Time).To(BeZero())
			Expect(first.Theta).To(Equal(result.Phase.Contact))
			Expect(first.Omega).To(Equal(result.Timing.GroundVelocity))
			Expect(first.Alpha).To(BeZero())
			Expect(first.Contact).To(BeTrue())
			for _, j := range first.Joints {
				Expect(j.Vel).To(Equal(dynamo.Vec2{}))
				Expect(j.Acc).To(Equal(dynamo.Vec2{}))
			}
		})

		It("advances time monotonically towards the cycle time", func() {
			times := result.Times()
			for i := 1; i < len(times); i++ {
				Expect(times[i]).To(BeNumerically(">", times[i-1]))
			}
			last := times[len(times)-1]
			Expect(last).To(BeNumerically("~", result.Timing.Cycle, 2*result.StepSize))
			Expect(result.Timing.Cycle).To(BeNumerically("~", 0.98473, 1e-4))
		})

		It("turns the crank clockwise through one rotation without wrapping", func() {
			for i := 1; i < len(result.Samples); i++ {
				Expect(result.Samples[i].Theta).To(BeNumerically("<", result.Samples[i-1].Theta))
			}
			swept := result.Samples[0].Theta - result.Samples[len(result.Samples)-1].Theta
			Expect(swept).To(BeNumerically("~", 2*math.Pi, 0.1))
			Expect(result.Samples[len(result.Samples)-1].Theta).To(BeNumerically("<", 0))
		})

		It("uses only the two planned crank speeds", func() {
			for _, s := range result.Samples {
				Expect(s.Omega).To(Or(
					Equal(result.Timing.GroundVelocity),
					Equal(result.Timing.FlightVelocity),
				))
			}
		})

		It("keeps the foot grounded for about the duty factor", func() {
			stance := metrics.Summarize(result.Samples).Stance
			Expect(float64(stance) / 1000).To(BeNumerically("~", 0.75, 0.01))
		})

		It("reports metrics and observers for every step", func() {
			Expect(rec.steps).To(HaveLen(1000))
			Expect(result.Metrics).To(HaveKeyWithValue("peak_torque", peak.Value()))
			Expect(peak.Value()).To(BeNumerically(">", 0))
		})

		It("crosses theta = 0 without a kinematic spike", func() {
			torque, acc := aroundZeroCrossing(result.Samples, 5)
			Expect(torque).To(BeNumerically("<", 100))
			Expect(acc).To(BeNumerically("<", 500))
		})

		It("starts from the static stance torque", func() {
			Expect(result.Samples[0].Torque).To(BeNumerically("~", 18.5355, 1e-3))
		})
	})

	It("rejects an invalid configuration before integrating", func() {
		cfg.Geometry.Links[3] = 0
		_, err := sim.New(cfg)
		Expect(errors.Is(err, dynamo.ErrConfig)).To(BeTrue())
	})

	It("rejects a non-positive target speed", func() {
		cfg.Gait.TargetSpeed = 0
		s, err := sim.New(cfg)
		if err == nil {
			_, err = s.Run(context.Background())
		}
		Expect(errors.Is(err, dynamo.ErrConfig)).To(BeTrue())
	})

	It("fails loudly when the foot never reaches the ground", func() {
		cfg.Gait.GroundLevel = -1
		s, err := sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		_, err = s.Run(context.Background())
		Expect(errors.Is(err, dynamo.ErrNoContact)).To(BeTrue())
	})

	It("wraps a failing step with its index", func() {
		cfg.Numerics.SingularTolerance = 2
		s, err := sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		res, err := s.Run(context.Background())
		Expect(res).To(BeNil())

		var serr *dynamo.SimulationError
		Expect(errors.As(err, &serr)).To(BeTrue())
		Expect(serr.Step).To(Equal(0))
		Expect(errors.Is(err, dynamo.ErrSingular)).To(BeTrue())
	})

	It("stops when the context is cancelled", func() {
		s, err := sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		phase, err := s.Detect(context.Background())
		Expect(err).NotTo(HaveOccurred())
		timing, err := s.Plan(phase)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = s.Integrate(ctx, phase, timing)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("integrates a hand-built phase", func() {
		s, err := sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		phase := gait.Phase{Contact: 4.5442, Liftoff: 1.7826, StrideLength: 0.2213}
		res, err := s.RunPhase(context.Background(), phase)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Samples[0].Theta).To(Equal(4.5442))
	})

	It("matches the full-resolution reference", func() {
		if testing.Short() {
			Skip("full-resolution run")
		}
		s, err := sim.New(config.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		res, err := s.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Samples).To(HaveLen(config.DefaultSteps))
		Expect(res.Phase.StrideLength).To(BeNumerically("~", 0.2213, 1e-4))

		torque, acc := aroundZeroCrossing(res.Samples, 5)
		Expect(torque).To(BeNumerically("<", 100))
		Expect(acc).To(BeNumerically("<", 500))
	})
})

// aroundZeroCrossing returns the largest |torque| and foot acceleration within
// window steps of the first negative crank angle.
func aroundZeroCrossing(samples []dynamo.Sample, window int) (torque, acc float64) {
	i := slices.IndexFunc(samples, func(s dynamo.Sample) bool { return s.Theta < 0 })
	Expect(i).To(BeNumerically(">", 0), "crank never crossed zero")

	for j := max(0, i-window); j <= min(len(samples)-1, i+window); j++ {
		torque = max(torque, math.Abs(samples[j].Torque))
		acc = max(acc, samples[j].Foot().Acc.Norm())
	}
	return torque, acc
}
