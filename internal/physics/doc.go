// Package physics solves the leg's inverse dynamics.
//
// A [Solver] takes one step's joint positions and accelerations and walks a
// fixed chain of free-body stages from the foot to the crank. Each stage is a
// closed-form 2x2 force balance whose unknowns are two reaction magnitudes:
//
//	Ra cos(phi_a) + Rb cos(phi_b) = m*ax + sum(Rk cos(phi_k))
//	Ra sin(phi_a) + Rb sin(phi_b) = m*(ay + g) + sum(Rk sin(phi_k)) - Fe
//
// Fe is only applied while the foot is on the ground. The crank torque follows
// from R1, R6 and the crank's own weight.
//
// # Failures
//
// A link whose horizontal span exceeds its length returns a
// [dynamo.DomainError]; two parallel reaction directions return a
// [dynamo.SingularError]. Neither is retried.
package physics
