package fft

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	dspfft "github.com/mjibson/go-dsp/fft"

	"github.com/tlittenberg/glass/internal/testutil"
)

// Lengths cover the algo-fft path (powers of two) and the fftpack path.
var testLengths = []int{2, 8, 12, 16, 34, 64, 96, 250}

func TestForwardMatchesReference(t *testing.T) {
	for _, n := range testLengths {
		p, err := NewPlan(n)
		if err != nil {
			t.Fatalf("NewPlan(%d): %v", n, err)
		}

		x := testutil.DeterministicNoise(int64(n), 1, n)
		src := make([]complex128, n)
		for i, v := range x {
			src[i] = complex(v, 0.25*v*v)
		}

		got := make([]complex128, n)
		if err := p.Forward(got, src); err != nil {
			t.Fatalf("n=%d: Forward: %v", n, err)
		}

		want := dspfft.FFT(src)
		for k := range want {
			if cmplx.Abs(got[k]-want[k]) > 1e-9*float64(n) {
				t.Fatalf("n=%d bin %d: got %v, want %v", n, k, got[k], want[k])
			}
		}
	}
}

func TestRealForwardMatchesReference(t *testing.T) {
	for _, n := range testLengths {
		p, err := NewPlan(n)
		if err != nil {
			t.Fatalf("NewPlan(%d): %v", n, err)
		}

		x := testutil.DeterministicNoise(int64(3*n), 1, n)
		got := make([]complex128, n/2+1)
		if err := p.RealForward(got, x); err != nil {
			t.Fatalf("n=%d: RealForward: %v", n, err)
		}

		want := dspfft.FFTReal(x)
		for k := range got {
			if cmplx.Abs(got[k]-want[k]) > 1e-9*float64(n) {
				t.Fatalf("n=%d bin %d: got %v, want %v", n, k, got[k], want[k])
			}
		}
	}
}

func TestInverseRoundTrip(t *testing.T) {
	for _, n := range testLengths {
		p, err := NewPlan(n)
		if err != nil {
			t.Fatalf("NewPlan(%d): %v", n, err)
		}

		x := testutil.DeterministicNoise(int64(n+7), 1, n)

		spec := make([]complex128, n/2+1)
		if err := p.RealForward(spec, x); err != nil {
			t.Fatal(err)
		}
		back := make([]float64, n)
		if err := p.RealInverse(back, spec); err != nil {
			t.Fatal(err)
		}
		testutil.RequireSliceNearlyEqual(t, back, x, 1e-12)

		buf := make([]complex128, n)
		for i, v := range x {
			buf[i] = complex(v, -v)
		}
		if err := p.Forward(buf, buf); err != nil {
			t.Fatal(err)
		}
		if err := p.Inverse(buf, buf); err != nil {
			t.Fatal(err)
		}
		for i, v := range x {
			if cmplx.Abs(buf[i]-complex(v, -v)) > 1e-12 {
				t.Fatalf("n=%d index %d: got %v, want %v", n, i, buf[i], complex(v, -v))
			}
		}
	}
}

func TestLengthMismatch(t *testing.T) {
	p, err := NewPlan(16)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Forward(make([]complex128, 8), make([]complex128, 16)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("Forward err = %v, want ErrLengthMismatch", err)
	}
	if err := p.RealForward(make([]complex128, 16), make([]float64, 16)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("RealForward err = %v, want ErrLengthMismatch", err)
	}
	if err := p.RealInverse(make([]float64, 15), make([]complex128, 9)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("RealInverse err = %v, want ErrLengthMismatch", err)
	}
	if _, err := NewPlan(0); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("NewPlan(0) err = %v, want ErrInvalidLength", err)
	}
}

func TestAcquireRelease(t *testing.T) {
	p, err := Acquire(48)
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 48 {
		t.Fatalf("Len = %d, want 48", p.Len())
	}
	Release(p)
	Release(nil)

	q, err := Acquire(48)
	if err != nil {
		t.Fatal(err)
	}
	defer Release(q)

	x := make([]float64, 48)
	x[1] = 1
	spec := make([]complex128, 25)
	if err := q.RealForward(spec, x); err != nil {
		t.Fatal(err)
	}
	// A unit impulse at n=1 has unit magnitude in every bin.
	for k, c := range spec {
		if math.Abs(cmplx.Abs(c)-1) > 1e-12 {
			t.Fatalf("bin %d magnitude %v, want 1", k, cmplx.Abs(c))
		}
	}
}
