// Package fft puts the two FFT backends used by the wavelet transforms
// behind one plan type with a fixed normalization convention.
//
// Power-of-two lengths run on algo-fft plans. Every other length (the
// wavelet layer counts and segment lengths are rarely powers of two) runs
// on gonum's fftpack port. Forward transforms are unnormalized and inverse
// transforms carry the 1/n factor, so Inverse(Forward(x)) == x.
//
// A Plan owns scratch memory and must not be shared between goroutines.
// Use Acquire/Release to borrow plans from a per-length pool.
package fft

import (
	"errors"
	"fmt"
	"sync"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/dsp/fourier"
)

var (
	// ErrInvalidLength is returned for transform lengths below one.
	ErrInvalidLength = errors.New("fft: length must be >= 1")
	// ErrLengthMismatch is returned when a buffer does not match the plan length.
	ErrLengthMismatch = errors.New("fft: buffer length mismatch")
)

// Plan computes complex and real-input transforms of one fixed length.
type Plan struct {
	n     int
	fast  *algofft.Plan[complex128]
	real  *fourier.FFT
	cmplx *fourier.CmplxFFT
	buf   []complex128
}

// NewPlan creates a plan for length n.
func NewPlan(n int) (*Plan, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	p := &Plan{n: n, buf: make([]complex128, n)}

	if isPowerOf2(n) && n >= 2 {
		if fp, err := algofft.NewPlan64(n); err == nil {
			p.fast = fp
			return p, nil
		}
	}

	p.real = fourier.NewFFT(n)
	p.cmplx = fourier.NewCmplxFFT(n)

	return p, nil
}

// Len returns the transform length.
func (p *Plan) Len() int { return p.n }

// Forward computes X[k] = sum_n x[n] exp(-2*pi*i*k*n/N). dst and src may alias.
func (p *Plan) Forward(dst, src []complex128) error {
	if len(dst) != p.n || len(src) != p.n {
		return fmt.Errorf("%w: forward got %d/%d, want %d", ErrLengthMismatch, len(dst), len(src), p.n)
	}

	if p.fast != nil {
		if err := p.fast.Forward(dst, src); err != nil {
			return fmt.Errorf("fft: forward transform failed: %w", err)
		}
		return nil
	}

	p.cmplx.Coefficients(dst, src)

	return nil
}

// Inverse computes x[n] = (1/N) sum_k X[k] exp(2*pi*i*k*n/N). dst and src may alias.
func (p *Plan) Inverse(dst, src []complex128) error {
	if len(dst) != p.n || len(src) != p.n {
		return fmt.Errorf("%w: inverse got %d/%d, want %d", ErrLengthMismatch, len(dst), len(src), p.n)
	}

	if p.fast != nil {
		if err := p.fast.Inverse(dst, src); err != nil {
			return fmt.Errorf("fft: inverse transform failed: %w", err)
		}
		return nil
	}

	p.cmplx.Sequence(dst, src)

	scale := complex(1/float64(p.n), 0)
	for i := range dst {
		dst[i] *= scale
	}

	return nil
}

// RealForward computes the non-negative half of the spectrum of a real
// sequence. dst must hold n/2+1 bins.
func (p *Plan) RealForward(dst []complex128, src []float64) error {
	if len(src) != p.n || len(dst) != p.n/2+1 {
		return fmt.Errorf("%w: real forward got %d/%d, want %d/%d",
			ErrLengthMismatch, len(dst), len(src), p.n/2+1, p.n)
	}

	if p.fast == nil {
		p.real.Coefficients(dst, src)
		return nil
	}

	for i, v := range src {
		p.buf[i] = complex(v, 0)
	}

	if err := p.fast.Forward(p.buf, p.buf); err != nil {
		return fmt.Errorf("fft: real forward transform failed: %w", err)
	}

	copy(dst, p.buf[:len(dst)])

	return nil
}

// RealInverse reconstructs a real sequence from its n/2+1 non-negative bins,
// including the 1/n factor. The imaginary parts of the DC bin and, for even
// n, the Nyquist bin are ignored.
func (p *Plan) RealInverse(dst []float64, src []complex128) error {
	if len(dst) != p.n || len(src) != p.n/2+1 {
		return fmt.Errorf("%w: real inverse got %d/%d, want %d/%d",
			ErrLengthMismatch, len(dst), len(src), p.n, p.n/2+1)
	}

	if p.fast == nil {
		p.real.Sequence(dst, src)
		vecmath.ScaleBlockInPlace(dst, 1/float64(p.n))
		return nil
	}

	half := p.n / 2
	p.buf[0] = complex(real(src[0]), 0)
	for k := 1; k < half; k++ {
		p.buf[k] = src[k]
		p.buf[p.n-k] = complex(real(src[k]), -imag(src[k]))
	}
	p.buf[half] = complex(real(src[half]), 0)

	if err := p.fast.Inverse(p.buf, p.buf); err != nil {
		return fmt.Errorf("fft: real inverse transform failed: %w", err)
	}

	for i := range dst {
		dst[i] = real(p.buf[i])
	}

	return nil
}

var pools sync.Map // int -> *sync.Pool

// Acquire returns a plan of length n from the shared pool, creating one if
// the pool is empty. Return it with Release when done.
func Acquire(n int) (*Plan, error) {
	v, _ := pools.LoadOrStore(n, &sync.Pool{})
	pool := v.(*sync.Pool)

	if p, ok := pool.Get().(*Plan); ok {
		return p, nil
	}

	return NewPlan(n)
}

// Release returns a plan to its pool. A nil plan is ignored.
func Release(p *Plan) {
	if p == nil {
		return
	}

	if v, ok := pools.Load(p.n); ok {
		v.(*sync.Pool).Put(p)
	}
}

func isPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
