package testutil

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// MaxAbsDiff returns the largest element-wise distance between a and b.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("testutil: %d values compared against %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	return floats.Distance(a, b, math.Inf(1)), nil
}

// MaxAbs returns the largest magnitude in data.
func MaxAbs(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Norm(data, math.Inf(1))
}

// RelativeError returns max|got-want| / max|want|, or the absolute error when
// want is identically zero.
func RelativeError(got, want []float64) (float64, error) {
	d, err := MaxAbsDiff(got, want)
	if err != nil {
		return 0, err
	}
	if ref := MaxAbs(want); ref > 0 {
		return d / ref, nil
	}
	return d, nil
}

// Energy returns the sum of squares of data.
func Energy(data []float64) float64 {
	return floats.Dot(data, data)
}

// RequireSliceNearlyEqual stops the test at the first coefficient further
// than eps from its reference.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d coefficients, want %d", len(got), len(want))
	}
	for k, g := range got {
		if d := math.Abs(g - want[k]); d > eps || d != d {
			t.Fatalf("coefficient %d = %v, want %v (|diff| %v, eps %v)", k, g, want[k], d, eps)
		}
	}
}

// RequireFinite stops the test when data holds a NaN or an infinity.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	if k := firstNonFinite(data); k >= 0 {
		t.Fatalf("coefficient %d of %d is %v", k, len(data), data[k])
	}
}

func firstNonFinite(data []float64) int {
	for k, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return k
		}
	}
	return -1
}
