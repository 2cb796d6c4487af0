package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Tukey returns Tukey (tapered cosine) window coefficients of the given size.
// alpha is the tapered fraction of the window: 0 is rectangular, 1 is Hann.
func Tukey(size int, alpha float64) ([]float64, error) {
	if err := validateTukey(size, alpha); err != nil {
		return nil, err
	}

	w := make([]float64, size)
	for i := range w {
		w[i] = 1
	}
	taper(w, alpha)

	return w, nil
}

// ApplyTukey tapers buf in place. Only the edge ramps are touched, so the
// call does not allocate.
func ApplyTukey(buf []float64, alpha float64) error {
	if err := validateTukey(len(buf), alpha); err != nil {
		return err
	}

	taper(buf, alpha)

	return nil
}

// ApplyCoefficients multiplies buf by precomputed window coefficients.
func ApplyCoefficients(buf, coeffs []float64) error {
	if len(coeffs) == 0 {
		return errEmptyCoeffs
	}
	if len(buf) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(buf, coeffs)

	return nil
}

// Ramp returns the number of samples tapered at each edge of a Tukey window.
func Ramp(size int, alpha float64) int {
	if size < 2 {
		return 0
	}
	return int(alpha * float64(size-1) / 2)
}

// TukeyScale returns the mean of the Tukey window coefficients, the factor
// by which tapering reduces the mean level of a stationary signal.
func TukeyScale(size int, alpha float64) (float64, error) {
	w, err := Tukey(size, alpha)
	if err != nil {
		return 0, err
	}

	return vecmath.Sum(w) / float64(size), nil
}

func taper(buf []float64, alpha float64) {
	n := len(buf)
	ramp := Ramp(n, alpha)
	if ramp == 0 {
		return
	}

	last := int(float64(n-1) * (1 - alpha/2))
	for i := 0; i < ramp; i++ {
		buf[i] *= tukeyEdge(i, ramp)
	}
	for i := last + 1; i < n; i++ {
		buf[i] *= tukeyEdge(n-1-i, ramp)
	}
}

// tukeyEdge is the raised-cosine ramp value for sample i of a ramp of
// length ramp, rising from 0 at i=0 towards 1.
func tukeyEdge(i, ramp int) float64 {
	return 0.5 * (1 + math.Cos(math.Pi*(float64(i)/float64(ramp)-1)))
}
