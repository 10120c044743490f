package linkage

import (
	"fmt"
	"math"

	"github.com/SeanJxie/polygo"

	"github.com/san-kum/jansim/internal/dynamo"
)

// Joints holds the position of every joint at one crank angle.
type Joints [dynamo.NumJoints]dynamo.Vec2

// Model maps a crank angle to joint positions. It is immutable and safe for
// concurrent use.
type Model struct {
	crank float64
	xs    [dynamo.NumJoints]*polygo.RealPolynomial
	ys    [dynamo.NumJoints]*polygo.RealPolynomial
}

// NewModel builds a model from a crank radius and fits for joints 1..5.
func NewModel(crank float64, fits [dynamo.NumJoints]Fit) (*Model, error) {
	if crank <= 0 {
		return nil, fmt.Errorf("%w: crank radius must be positive, got %g", dynamo.ErrConfig, crank)
	}

	m := &Model{crank: crank}
	for j := 1; j < dynamo.NumJoints; j++ {
		px, err := polygo.NewRealPolynomial(fits[j].X)
		if err != nil {
			return nil, fmt.Errorf("%w: joint %d x fit: %v", dynamo.ErrConfig, j, err)
		}
		py, err := polygo.NewRealPolynomial(fits[j].Y)
		if err != nil {
			return nil, fmt.Errorf("%w: joint %d y fit: %v", dynamo.ErrConfig, j, err)
		}
		m.xs[j], m.ys[j] = px, py
	}
	return m, nil
}

// NewDefaultModel builds the model of the reference leg for g.
func NewDefaultModel(g *Geometry) (*Model, error) {
	return NewModel(g.Crank(), DefaultFits)
}

// FitAngle reduces theta into [0, 2pi], the interval the polynomials were
// fitted over. The crank is 2pi-periodic, the polynomials are not. Angles
// already inside the interval, 2pi included, are returned unchanged.
func FitAngle(theta float64) float64 {
	if theta >= 0 && theta <= 2*math.Pi {
		return theta
	}
	a := math.Mod(theta, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Positions evaluates every joint at crank angle theta. Any real theta is
// accepted, including the negative angles reached while integrating.
func (m *Model) Positions(theta float64) Joints {
	var j Joints
	j[0] = m.CrankPin(theta)
	a := FitAngle(theta)
	for i := 1; i < dynamo.NumJoints; i++ {
		j[i] = dynamo.Vec2{X: m.xs[i].At(a), Y: m.ys[i].At(a)}
	}
	return j
}

// PositionsNear evaluates theta on the same polynomial branch as ref: both
// angles are shifted by the multiple of 2pi that brings ref into the fitted
// interval. The fits do not close at 2pi, so differences between nearby
// angles must be taken on one branch or they pick up the seam.
func (m *Model) PositionsNear(theta, ref float64) Joints {
	var j Joints
	j[0] = m.CrankPin(theta)
	a := theta + (FitAngle(ref) - ref)
	for i := 1; i < dynamo.NumJoints; i++ {
		j[i] = dynamo.Vec2{X: m.xs[i].At(a), Y: m.ys[i].At(a)}
	}
	return j
}

// CrankPin returns joint 0 on the crank circle.
func (m *Model) CrankPin(theta float64) dynamo.Vec2 {
	return dynamo.Vec2{X: m.crank * math.Cos(theta), Y: m.crank * math.Sin(theta)}
}

// Foot returns only the foot joint, for sweeps that need nothing else.
func (m *Model) Foot(theta float64) dynamo.Vec2 {
	a := FitAngle(theta)
	return dynamo.Vec2{
		X: m.xs[dynamo.FootJoint].At(a),
		Y: m.ys[dynamo.FootJoint].At(a),
	}
}

// Joint returns joint i alone.
func (m *Model) Joint(i int, theta float64) dynamo.Vec2 {
	if i == 0 {
		return m.CrankPin(theta)
	}
	a := FitAngle(theta)
	return dynamo.Vec2{X: m.xs[i].At(a), Y: m.ys[i].At(a)}
}
