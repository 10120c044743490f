package dynamo

import (
	"fmt"
	"math"
)

const (
	// NumJoints is the number of moving joints tracked per step. Joint 0 is the
	// crank pin, joint 5 the foot.
	NumJoints = 6
	// NumLinks counts the crank (link 0) plus the ten coupler links.
	NumLinks = 11
	// FootJoint is the joint that touches the ground.
	FootJoint = 5
)

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", v.X, v.Y)
}

// JointState is the kinematic state of one joint at one step.
type JointState struct {
	Pos Vec2
	Vel Vec2
	Acc Vec2
}

// Reactions holds reaction magnitudes indexed by link number. Index 0 (the
// crank) is never solved for and stays zero.
type Reactions [NumLinks]float64

// Sample is one simulation step. A sample at index i is derived only from the
// sample at i-1 and the kinematic model evaluated at step i.
type Sample struct {
	Step      int
	Time      float64
	Theta     float64
	Omega     float64
	Alpha     float64
	Contact   bool
	Joints    [NumJoints]JointState
	Reactions Reactions
	Torque    float64
}

// Foot returns the foot joint state.
func (s *Sample) Foot() JointState { return s.Joints[FootJoint] }

func (s *Sample) IsValid() bool {
	for _, v := range []float64{s.Time, s.Theta, s.Omega, s.Alpha, s.Torque} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, j := range s.Joints {
		if !j.Pos.IsValid() || !j.Vel.IsValid() || !j.Acc.IsValid() {
			return false
		}
	}
	for _, r := range s.Reactions {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return false
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(s *Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *Sample)
}
