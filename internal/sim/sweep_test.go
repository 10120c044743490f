package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/jansim/internal/config"
	"github.com/san-kum/jansim/internal/dynamo"
	"github.com/san-kum/jansim/internal/sim"
)

var _ = Describe("Sweep", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.GetPreset("quick")
		cfg.Numerics.Workers = 2
	})

	It("returns one point per speed in request order", func() {
		speeds := []float64{0.5, 0.15, 0.3}
		points, err := sim.Sweep(context.Background(), cfg, speeds)
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(3))

		for i, p := range points {
			Expect(p.Speed).To(Equal(speeds[i]))
			Expect(p.Cycle * p.Speed).To(BeNumerically("~", points[0].Cycle*points[0].Speed, 1e-12))
		}
	})

	It("needs more torque to walk faster", func() {
		points, err := sim.Sweep(context.Background(), cfg, []float64{0.15, 0.3, 0.5})
		Expect(err).NotTo(HaveOccurred())

		Expect(points[1].RMSTorque).To(BeNumerically(">", points[0].RMSTorque))
		Expect(points[2].RMSTorque).To(BeNumerically(">", points[1].RMSTorque))
		Expect(points[2].GroundVelocity).To(BeNumerically(">", points[0].GroundVelocity))
	})

	It("agrees with a single run", func() {
		points, err := sim.Sweep(context.Background(), cfg, []float64{0.3})
		Expect(err).NotTo(HaveOccurred())

		s, err := sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		res, err := s.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(points[0].Cycle).To(Equal(res.Timing.Cycle))
	})

	It("rejects an empty speed list", func() {
		_, err := sim.Sweep(context.Background(), cfg, nil)
		Expect(errors.Is(err, dynamo.ErrConfig)).To(BeTrue())
	})

	It("fails the whole sweep on a bad speed", func() {
		_, err := sim.Sweep(context.Background(), cfg, []float64{0.3, -1})
		Expect(errors.Is(err, dynamo.ErrConfig)).To(BeTrue())
	})
})
