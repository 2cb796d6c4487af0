package wdm

import (
	"fmt"
	"math"

	"github.com/tlittenberg/glass/internal/fft"
)

// InverseSpectrum synthesizes the non-negative half (N/2+1 bins) of the
// unnormalized DFT of the time series represented by pixels.
//
// Each layer is synthesized independently: its row of coefficients is
// embedded with the parity rule, transformed at length NT and placed around
// the layer centre bin m*NT/2 under the discrete filter.
func (b *Basis) InverseSpectrum(pixels []float64) ([]complex128, error) {
	n := b.Len()
	if err := validateLength("pixels", len(pixels), n); err != nil {
		return nil, err
	}

	nt := b.nt
	out := make([]complex128, n/2+1)
	filter := b.FrequencyWindow(nt)
	amp := float64(b.nf) / math.Sqrt(b.pixelDuration)

	plan, err := fft.Acquire(nt)
	if err != nil {
		return nil, fmt.Errorf("wdm: inverse transform: %w", err)
	}
	defer fft.Release(plan)

	row := make([]complex128, nt)
	for m := 1; m < b.nf; m++ {
		for i := range row {
			row[i] = ParityOf(i, m).Embed(pixels[i+m*nt])
		}
		if err := plan.Forward(row, row); err != nil {
			return nil, fmt.Errorf("wdm: inverse transform: %w", err)
		}

		h := m * nt / 2
		for p := -nt/2 + 1; p < nt/2; p++ {
			u := filter[abs(p)]
			l := h + p
			if u == 0 || l < 0 || l > n/2 {
				continue
			}
			out[l] += complex(amp*u, 0) * row[wrap(l, nt)]
		}
	}

	if err := b.synthesizeEdges(out, pixels, filter, math.Sqrt2*amp); err != nil {
		return nil, err
	}

	return out, nil
}

// synthesizeEdges adds the DC (even layer-0 pixels) and Nyquist (odd
// layer-0 pixels) half layers. Both are sampled every second time pixel.
func (b *Basis) synthesizeEdges(out []complex128, pixels, filter []float64, amp float64) error {
	half := b.nt / 2
	nyq := len(out) - 1

	plan, err := fft.Acquire(half)
	if err != nil {
		return fmt.Errorf("wdm: inverse transform: %w", err)
	}
	defer fft.Release(plan)

	dc := make([]complex128, half)
	hi := make([]complex128, half)
	for p := range half {
		dc[p] = complex(pixels[2*p], 0)
		hi[p] = complex(pixels[2*p+1], 0)
	}
	if err := plan.Forward(dc, dc); err != nil {
		return fmt.Errorf("wdm: inverse transform: %w", err)
	}
	if err := plan.Forward(hi, hi); err != nil {
		return fmt.Errorf("wdm: inverse transform: %w", err)
	}

	for p := range half {
		u := filter[p]
		if u == 0 {
			continue
		}
		w := complex(amp*u, 0)
		out[p] += w * dc[p]
		out[nyq-p] += w * hi[wrap(nyq-p, half)]
	}

	return nil
}

// Inverse reconstructs the NT*NF-sample time series from pixels.
func (b *Basis) Inverse(pixels []float64) ([]float64, error) {
	spec, err := b.InverseSpectrum(pixels)
	if err != nil {
		return nil, err
	}

	plan, err := fft.Acquire(b.Len())
	if err != nil {
		return nil, fmt.Errorf("wdm: inverse transform: %w", err)
	}
	defer fft.Release(plan)

	out := make([]float64, b.Len())
	if err := plan.RealInverse(out, spec); err != nil {
		return nil, fmt.Errorf("wdm: inverse transform: %w", err)
	}

	return out, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
