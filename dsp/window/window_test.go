package window

import (
	"math"
	"testing"

	"github.com/tlittenberg/glass/internal/testutil"
)

func TestTukeyShape(t *testing.T) {
	const n = 101
	w, err := Tukey(n, 0.2)
	if err != nil {
		t.Fatal(err)
	}

	ramp := Ramp(n, 0.2)
	if ramp != 10 {
		t.Fatalf("Ramp = %d, want 10", ramp)
	}
	if w[0] != 0 {
		t.Fatalf("w[0] = %v, want 0", w[0])
	}
	if w[n-1] != 0 {
		t.Fatalf("w[n-1] = %v, want 0", w[n-1])
	}
	for i := ramp; i < n-ramp; i++ {
		if w[i] != 1 {
			t.Fatalf("w[%d] = %v, want flat 1", i, w[i])
		}
	}
	for i := 0; i < ramp; i++ {
		if math.Abs(w[i]-w[n-1-i]) > 1e-15 {
			t.Fatalf("asymmetric at %d: %v vs %v", i, w[i], w[n-1-i])
		}
		if i > 0 && w[i] <= w[i-1] {
			t.Fatalf("ramp not increasing at %d", i)
		}
	}
}

func TestTukeyZeroAlphaIsRectangular(t *testing.T) {
	w, err := Tukey(16, 0)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, w, onesSlice(16), 0)
}

func TestApplyTukeyMatchesCoefficients(t *testing.T) {
	x := testutil.DeterministicNoise(5, 1, 64)
	want := append([]float64(nil), x...)

	w, err := Tukey(64, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyCoefficients(want, w); err != nil {
		t.Fatal(err)
	}
	if err := ApplyTukey(x, 0.25); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, x, want, 1e-15)
}

func TestTukeyScale(t *testing.T) {
	s, err := TukeyScale(1000, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s != 1 {
		t.Fatalf("scale = %v, want 1", s)
	}

	// A Hann window has mean 1/2.
	s, err = TukeyScale(1001, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(s-0.5) > 2e-3 {
		t.Fatalf("scale = %v, want ~0.5", s)
	}
}

func TestTukeyValidation(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		alpha float64
	}{
		{"zero size", 0, 0.5},
		{"negative alpha", 8, -0.1},
		{"alpha above one", 8, 1.5},
		{"nan alpha", 8, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Tukey(tt.size, tt.alpha); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if err := ApplyCoefficients(make([]float64, 3), nil); err == nil {
		t.Fatal("expected error for empty coefficients")
	}
	if err := ApplyCoefficients(make([]float64, 3), make([]float64, 2)); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func onesSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
