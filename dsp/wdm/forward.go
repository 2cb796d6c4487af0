package wdm

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/tlittenberg/glass/internal/fft"
)

// Forward transforms a dense time series of NT*NF samples at cadence Δt
// into NT*NF wavelet coefficients. The series is treated as periodic.
func (b *Basis) Forward(data []float64) ([]float64, error) {
	out := make([]float64, b.Len())
	if err := b.ForwardInto(out, data); err != nil {
		return nil, err
	}
	return out, nil
}

// ForwardInto is Forward writing into dst, which must hold NT*NF values.
func (b *Basis) ForwardInto(dst, data []float64) error {
	n := b.Len()
	if err := validateLength("data", len(data), n); err != nil {
		return err
	}
	if err := validateLength("dst", len(dst), n); err != nil {
		return err
	}

	k := len(b.window)
	plan, err := fft.Acquire(k)
	if err != nil {
		return fmt.Errorf("wdm: forward transform: %w", err)
	}
	defer fft.Release(plan)

	seg := make([]float64, k)
	spec := make([]complex128, k/2+1)

	q := b.oversample
	scale := math.Sqrt(b.cadence)
	layerScale := math.Sqrt2 * scale

	for i := 0; i < b.nt; i++ {
		start := i*b.nf - k/2
		for j := range seg {
			seg[j] = data[wrap(start+j, n)]
		}
		vecmath.MulBlockInPlace(seg, b.window)

		if err := plan.RealForward(spec, seg); err != nil {
			return fmt.Errorf("wdm: forward transform: %w", err)
		}

		// Layer 0: DC for even i, Nyquist of the same slice for i+1.
		if i%2 == 0 {
			dst[i] = scale * real(spec[0])
			dst[i+1] = scale * real(spec[k/2])
		}

		for m := 1; m < b.nf; m++ {
			c := spec[m*q]
			if m*q%2 == 1 {
				c = -c
			}
			dst[i+m*b.nt] = layerScale * ParityOf(i, m).Select(c)
		}
	}

	return nil
}

// wrap reduces i modulo n into [0, n).
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
