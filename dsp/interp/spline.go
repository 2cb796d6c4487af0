package interp

import (
	"errors"
	"fmt"

	gonuminterp "gonum.org/v1/gonum/interp"
)

var (
	// ErrTooFewKnots is returned when a spline is fitted to fewer than three points.
	ErrTooFewKnots = errors.New("interp: spline needs at least 3 knots")
	// ErrKnotOrder is returned when knot abscissae are not strictly increasing.
	ErrKnotOrder = errors.New("interp: knots must be strictly increasing")
	// ErrKnotLength is returned when xs and ys differ in length.
	ErrKnotLength = errors.New("interp: xs and ys length mismatch")
)

// Boundary selects the end condition of a cubic spline.
type Boundary int

const (
	// NotAKnot requires a continuous third derivative at the first and last
	// interior knots. It reproduces cubic polynomials exactly.
	NotAKnot Boundary = iota
	// Natural forces a zero second derivative at both ends.
	Natural
)

type cubic interface {
	Fit(xs, ys []float64) error
	Predict(x float64) float64
	PredictDerivative(x float64) float64
}

// Spline is a piecewise cubic interpolant with first and second derivative
// evaluation. Outside the knot range the value and slope are held at the
// end knots.
//
// A Spline is not safe for concurrent Refit; concurrent evaluation is fine.
type Spline struct {
	boundary Boundary
	fit      cubic
	xs       []float64
}

// NewSpline fits a spline through (xs, ys).
func NewSpline(boundary Boundary, xs, ys []float64) (*Spline, error) {
	s := &Spline{boundary: boundary}
	if err := s.Refit(xs, ys); err != nil {
		return nil, err
	}
	return s, nil
}

// Refit replaces the knots, reusing the receiver.
func (s *Spline) Refit(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %d vs %d", ErrKnotLength, len(xs), len(ys))
	}
	if len(xs) < 3 {
		return fmt.Errorf("%w: got %d", ErrTooFewKnots, len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return fmt.Errorf("%w: xs[%d]=%v, xs[%d]=%v", ErrKnotOrder, i-1, xs[i-1], i, xs[i])
		}
	}

	var c cubic
	switch s.boundary {
	case Natural:
		c = &gonuminterp.NaturalCubic{}
	default:
		c = &gonuminterp.NotAKnotCubic{}
	}
	if err := c.Fit(xs, ys); err != nil {
		return fmt.Errorf("interp: spline fit failed: %w", err)
	}

	s.fit = c
	s.xs = append(s.xs[:0], xs...)

	return nil
}

// Domain returns the first and last knot.
func (s *Spline) Domain() (lo, hi float64) {
	return s.xs[0], s.xs[len(s.xs)-1]
}

// At evaluates the spline.
func (s *Spline) At(x float64) float64 { return s.fit.Predict(x) }

// Derivative evaluates the first derivative.
func (s *Spline) Derivative(x float64) float64 { return s.fit.PredictDerivative(x) }

// SecondDerivative evaluates the second derivative. The second derivative
// is linear on each piece, so it is recovered exactly from central
// differences of the first derivative at the quarter points of the piece
// containing x.
func (s *Spline) SecondDerivative(x float64) float64 {
	i := s.piece(x)
	lo, hi := s.xs[i], s.xs[i+1]
	w := hi - lo
	h := w / 4
	a := lo + h
	b := hi - h

	da := (s.fit.PredictDerivative(a+h) - s.fit.PredictDerivative(a-h)) / (2 * h)
	db := (s.fit.PredictDerivative(b+h) - s.fit.PredictDerivative(b-h)) / (2 * h)

	if x < lo {
		x = lo
	} else if x > hi {
		x = hi
	}

	return da + (x-a)*(db-da)/(b-a)
}

// piece returns the index of the knot interval containing x, clamped to
// the first and last interval.
func (s *Spline) piece(x float64) int {
	n := len(s.xs)
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s.xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
