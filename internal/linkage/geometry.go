package linkage

import (
	"fmt"
	"math"

	"github.com/san-kum/jansim/internal/config"
	"github.com/san-kum/jansim/internal/dynamo"
)

// Geometry is the static description of one leg. It is computed once from the
// configuration and must not be modified afterwards.
type Geometry struct {
	Lengths   [dynamo.NumLinks]float64
	Masses    [dynamo.NumLinks]float64
	Pin       dynamo.Vec2
	TubeArea  float64
	TorsoMass float64
	Gravity   float64
	// FootForce is the static ground reaction while the foot is planted:
	// the weight of every link plus this leg's share of the torso.
	FootForce float64
}

// NewGeometry derives link masses and the static foot force from cfg.
func NewGeometry(cfg *config.Config) (*Geometry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := cfg.Material
	// pi*d^2, not pi*d^2/4. Link masses and Fe depend on this exact form.
	area := math.Pi*m.TubeOuterDiameter*m.TubeOuterDiameter - math.Pi*m.TubeInnerDiameter*m.TubeInnerDiameter

	g := &Geometry{
		Pin:       dynamo.Vec2{X: cfg.Geometry.PinX, Y: cfg.Geometry.PinY},
		TubeArea:  area,
		TorsoMass: m.TorsoMass * m.TorsoShare,
		Gravity:   m.Gravity,
	}

	total := g.TorsoMass
	for i, l := range cfg.Geometry.Links {
		g.Lengths[i] = l
		g.Masses[i] = l * area * m.TubeDensity
		total += g.Masses[i]
	}
	g.FootForce = total * g.Gravity

	return g, nil
}

// Crank returns the crank radius l0.
func (g *Geometry) Crank() float64 { return g.Lengths[0] }

// PairMass returns the lumped mass of two links carried by one stage.
func (g *Geometry) PairMass(a, b int) float64 { return g.Masses[a] + g.Masses[b] }

func (g *Geometry) String() string {
	return fmt.Sprintf("crank=%.4fm pin=%s area=%.3em^2 foot_force=%.3fN", g.Crank(), g.Pin, g.TubeArea, g.FootForce)
}
