package physics

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/jansim/internal/dynamo"
	"github.com/san-kum/jansim/internal/linkage"
)

// pin marks the fixed frame point as a link endpoint.
const pin = -1

type link struct {
	from, to int
}

// links lists the endpoints of links 1..10. Link 0 is the crank and has no
// angle of its own; its direction is theta.
var links = [dynamo.NumLinks]link{
	{},
	{1, 0},
	{2, 1},
	{4, 2},
	{5, 4},
	{5, 3},
	{3, 0},
	{4, 3},
	{3, pin},
	{1, pin},
	{2, pin},
}

// Angles holds phi_k for links 1..10, indexed by link number.
type Angles [dynamo.NumLinks]float64

type stage struct {
	name     string
	body     int
	masses   [2]int
	unknowns [2]int
	known    []int
	foot     bool
}

// stages run foot first. Each solves two reactions from the acceleration of
// its body joint and reactions solved by earlier stages.
var stages = []stage{
	{name: "foot", body: 5, masses: [2]int{4, 5}, unknowns: [2]int{5, 4}, foot: true},
	{name: "joint4", body: 4, masses: [2]int{3, 7}, unknowns: [2]int{7, 3}, known: []int{4}},
	{name: "joint3", body: 3, masses: [2]int{6, 8}, unknowns: [2]int{8, 6}, known: []int{5, 7}},
	{name: "joint2", body: 2, masses: [2]int{2, 10}, unknowns: [2]int{10, 2}, known: []int{3}},
	{name: "joint1", body: 1, masses: [2]int{1, 9}, unknowns: [2]int{9, 1}, known: []int{2}},
}

// Solver propagates reaction forces from the foot to the crank. It holds only
// read-only geometry and may be shared between goroutines.
type Solver struct {
	geo *linkage.Geometry
	tol float64
}

func NewSolver(geo *linkage.Geometry, singularTolerance float64) *Solver {
	return &Solver{geo: geo, tol: singularTolerance}
}

func jointName(j int) string {
	if j == pin {
		return "pin"
	}
	return strconv.Itoa(j)
}

func (s *Solver) endpointX(j int, joints *[dynamo.NumJoints]dynamo.JointState) float64 {
	if j == pin {
		return s.geo.Pin.X
	}
	return joints[j].Pos.X
}

// LinkAngles computes phi_k = acos((x_from - x_to) / l_k) for every link. The
// first argument outside [-1, 1] is returned as a *dynamo.DomainError.
func (s *Solver) LinkAngles(joints *[dynamo.NumJoints]dynamo.JointState) (Angles, error) {
	var a Angles
	for k := 1; k < dynamo.NumLinks; k++ {
		l := links[k]
		fx, tx := s.endpointX(l.from, joints), s.endpointX(l.to, joints)
		arg := (fx - tx) / s.geo.Lengths[k]
		if arg < -1 || arg > 1 || math.IsNaN(arg) {
			return a, &dynamo.DomainError{
				Link:   k,
				From:   jointName(l.from),
				To:     jointName(l.to),
				FromX:  fx,
				ToX:    tx,
				Length: s.geo.Lengths[k],
			}
		}
		a[k] = math.Acos(arg)
	}
	return a, nil
}

// Solve returns the reactions R1..R10 and the crank torque at one step.
// contact adds the static foot force to the first stage.
func (s *Solver) Solve(theta float64, joints *[dynamo.NumJoints]dynamo.JointState, contact bool) (dynamo.Reactions, float64, error) {
	var r dynamo.Reactions

	ang, err := s.LinkAngles(joints)
	if err != nil {
		return r, 0, err
	}

	for i := range stages {
		if err := s.solveStage(&stages[i], &ang, joints, contact, &r); err != nil {
			return r, 0, err
		}
	}

	return r, s.Torque(theta, &ang, &r), nil
}

// rhs is the horizontal and vertical load the stage's two unknowns carry.
func (s *Solver) rhs(st *stage, ang *Angles, joints *[dynamo.NumJoints]dynamo.JointState, contact bool, r *dynamo.Reactions) (float64, float64) {
	m := s.geo.PairMass(st.masses[0], st.masses[1])
	acc := joints[st.body].Acc

	rx := m * acc.X
	ry := m * (acc.Y + s.geo.Gravity)
	for _, k := range st.known {
		rx += r[k] * math.Cos(ang[k])
		ry += r[k] * math.Sin(ang[k])
	}
	if st.foot && contact {
		ry -= s.geo.FootForce
	}
	return rx, ry
}

func (s *Solver) solveStage(st *stage, ang *Angles, joints *[dynamo.NumJoints]dynamo.JointState, contact bool, r *dynamo.Reactions) error {
	a, b := st.unknowns[0], st.unknowns[1]
	rx, ry := s.rhs(st, ang, joints, contact, r)

	ra, rb, det, err := solvePair(ang[a], ang[b], rx, ry, s.tol)
	if err != nil {
		return &dynamo.SingularError{
			Stage:    st.name,
			Unknowns: [2]int{a, b},
			Angles:   [2]float64{ang[a], ang[b]},
			Det:      det,
		}
	}
	r[a], r[b] = ra, rb
	return nil
}

// solvePair solves
//
//	ra*cos(pa) + rb*cos(pb) = rx
//	ra*sin(pa) + rb*sin(pb) = ry
//
// and fails when |det| = |sin(pb - pa)| is below tol.
func solvePair(pa, pb, rx, ry, tol float64) (float64, float64, float64, error) {
	A := mat.NewDense(2, 2, []float64{
		math.Cos(pa), math.Cos(pb),
		math.Sin(pa), math.Sin(pb),
	})
	det := mat.Det(A)
	if math.Abs(det) < tol || math.IsNaN(det) {
		return 0, 0, det, fmt.Errorf("determinant %.3e below %.3e", det, tol)
	}

	var x mat.VecDense
	if err := x.SolveVec(A, mat.NewVecDense(2, []float64{rx, ry})); err != nil {
		return 0, 0, det, err
	}
	return x.AtVec(0), x.AtVec(1), det, nil
}

// Torque resolves the crank pin load (R1, R6 and the crank's weight)
// perpendicular to the crank.
func (s *Solver) Torque(theta float64, ang *Angles, r *dynamo.Reactions) float64 {
	l0 := s.geo.Crank()
	fx := -r[1]*math.Cos(ang[1]) - r[6]*math.Cos(ang[6])
	fy := -r[1]*math.Sin(ang[1]) - r[6]*math.Sin(ang[6]) - s.geo.Masses[0]*s.geo.Gravity
	return fx*l0*math.Sin(theta) + fy*l0*math.Cos(theta)
}
