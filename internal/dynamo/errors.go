package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfig indicates an invalid setup value: non-positive speed, stride,
	// step count or a zero-length link.
	ErrConfig = errors.New("dynamo: invalid configuration")

	// ErrNoContact indicates the foot never reached the ground threshold
	// during the contact sweep.
	ErrNoContact = errors.New("dynamo: no ground contact found in sweep")

	// ErrDomain indicates an arccosine argument outside [-1, 1].
	ErrDomain = errors.New("dynamo: link angle outside arccos domain")

	// ErrSingular indicates a force-balance stage with a near-zero determinant.
	ErrSingular = errors.New("dynamo: singular force-balance stage")
)

// DomainError describes a link whose horizontal span exceeds its length.
type DomainError struct {
	Link     int
	From, To string
	FromX    float64
	ToX      float64
	Length   float64
}

func (e *DomainError) Arg() float64 {
	return (e.FromX - e.ToX) / e.Length
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%v: link %d arg %.6f (x_%s=%.6f, x_%s=%.6f, %s-%s=%.6f, length=%.6f)",
		ErrDomain, e.Link, e.Arg(), e.From, e.FromX, e.To, e.ToX, e.From, e.To, e.FromX-e.ToX, e.Length)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

// SingularError describes a stage whose two reaction directions are parallel.
type SingularError struct {
	Stage    string
	Unknowns [2]int
	Angles   [2]float64
	Det      float64
}

func (e *SingularError) Error() string {
	return fmt.Sprintf("%v: stage %s solving R%d/R%d (phi=%.6f, %.6f, det=%.3e)",
		ErrSingular, e.Stage, e.Unknowns[0], e.Unknowns[1], e.Angles[0], e.Angles[1], e.Det)
}

func (e *SingularError) Unwrap() error { return ErrSingular }

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Theta   float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.6f, theta=%.6f): %v", e.Step, e.Time, e.Theta, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
