package integrators

import "github.com/san-kum/jansim/internal/dynamo"

// Velocity is the backward difference (p - prev) / dt.
func Velocity(p, prev dynamo.Vec2, dt float64) dynamo.Vec2 {
	return p.Sub(prev).Scale(1 / dt)
}

// Acceleration is the backward second difference (p - 2*prev + prev2) / dt^2,
// the same value as (p - prev - v*dt) / dt^2 with v the backward velocity at
// prev.
func Acceleration(p, prev, prev2 dynamo.Vec2, dt float64) dynamo.Vec2 {
	return p.Sub(prev.Scale(2)).Add(prev2).Scale(1 / (dt * dt))
}

// Backward differentiates joint positions sampled at a fixed step. The two
// preceding positions are passed in rather than read from earlier states so
// the caller can supply them on the same branch of the model as the current
// one.
type Backward struct {
	dt float64
}

func NewBackward(dt float64) *Backward {
	return &Backward{dt: dt}
}

// Step fills vel and acc of cur from prev and prev2. measured reports whether
// prev2 is a real sample; at the first step after a seeded state the
// acceleration is left at zero.
func (b *Backward) Step(cur *dynamo.JointState, prev, prev2 dynamo.Vec2, measured bool) {
	cur.Vel = Velocity(cur.Pos, prev, b.dt)
	if !measured {
		cur.Acc = dynamo.Vec2{}
		return
	}
	cur.Acc = Acceleration(cur.Pos, prev, prev2, b.dt)
}

// Joints applies Step to every joint.
func (b *Backward) Joints(cur *[dynamo.NumJoints]dynamo.JointState, prev, prev2 [dynamo.NumJoints]dynamo.Vec2, measured bool) {
	for i := range cur {
		b.Step(&cur[i], prev[i], prev2[i], measured)
	}
}

// Rate is the backward difference of a scalar series such as crank speed.
func (b *Backward) Rate(v, prev float64) float64 {
	return (v - prev) / b.dt
}
