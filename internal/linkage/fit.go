package linkage

import (
	"fmt"
	"math"

	"github.com/SeanJxie/polygo"
	"github.com/openacid/slimarray/polyfit"

	"github.com/san-kum/jansim/internal/dynamo"
)

// FitCoefficients fits values(thetas) with a polynomial of the given degree and
// returns the coefficients in ascending order, the layout Fit uses.
func FitCoefficients(thetas, values []float64, degree int) ([]float64, error) {
	if len(thetas) != len(values) {
		return nil, fmt.Errorf("%w: %d angles but %d values", dynamo.ErrConfig, len(thetas), len(values))
	}
	if degree < 0 || len(thetas) <= degree {
		return nil, fmt.Errorf("%w: need more than %d samples for degree %d, got %d",
			dynamo.ErrConfig, degree, degree, len(thetas))
	}
	return polyfit.NewFit(thetas, values, degree).Solve(), nil
}

// Refit is the result of refitting one joint from sampled model positions.
type Refit struct {
	Joint    int
	Fit      Fit
	Residual float64 // max |fitted - sampled| over both coordinates
}

// RefitJoint samples joint over one rotation at n points and fits both
// coordinates again. Joint 0 is allowed; its fit approximates the crank circle.
func RefitJoint(m *Model, joint, n, degree int) (*Refit, error) {
	if joint < 0 || joint >= dynamo.NumJoints {
		return nil, fmt.Errorf("%w: joint %d out of range", dynamo.ErrConfig, joint)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", dynamo.ErrConfig, n)
	}

	thetas := make([]float64, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range thetas {
		thetas[i] = 2 * math.Pi * float64(i) / float64(n-1)
		p := m.Joint(joint, thetas[i])
		xs[i], ys[i] = p.X, p.Y
	}

	cx, err := FitCoefficients(thetas, xs, degree)
	if err != nil {
		return nil, err
	}
	cy, err := FitCoefficients(thetas, ys, degree)
	if err != nil {
		return nil, err
	}

	px, err := polygo.NewRealPolynomial(cx)
	if err != nil {
		return nil, fmt.Errorf("%w: joint %d x refit: %v", dynamo.ErrConfig, joint, err)
	}
	py, err := polygo.NewRealPolynomial(cy)
	if err != nil {
		return nil, fmt.Errorf("%w: joint %d y refit: %v", dynamo.ErrConfig, joint, err)
	}

	r := &Refit{Joint: joint, Fit: Fit{X: cx, Y: cy}}
	for i, th := range thetas {
		r.Residual = math.Max(r.Residual, math.Abs(px.At(th)-xs[i]))
		r.Residual = math.Max(r.Residual, math.Abs(py.At(th)-ys[i]))
	}
	return r, nil
}
