// Package dynamo provides the shared primitives of the leg simulation.
//
// The package defines the per-step record and error vocabulary used by every
// stage of the pipeline:
//
//   - [Vec2]: planar vector for joint positions, velocities and accelerations
//   - [Sample]: one step of the gait cycle (crank state, joints, reactions, torque)
//   - [Metric], [Observer]: hooks called once per written sample
//   - [ErrConfig], [ErrNoContact], [ErrDomain], [ErrSingular]: failure kinds
//   - [ParallelFor]: chunked fan-out for independent sample evaluation
//
// # Failures
//
// Numerical failures are never encoded as NaN. A step that cannot be solved
// returns a [*SimulationError] wrapping a [*DomainError] or [*SingularError]:
//
//	var de *dynamo.DomainError
//	if errors.As(err, &de) {
//	    // de.Link, de.FromX, de.ToX, de.Length
//	}
package dynamo
