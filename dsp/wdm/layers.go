package wdm

import (
	"fmt"
	"math"

	"github.com/tlittenberg/glass/dsp/window"
	"github.com/tlittenberg/glass/internal/fft"
)

// TransformLayers computes the coefficients of layers [first, first+layers)
// over the whole timeline from a narrow-band signal. data must hold
// NT*(layers+1) samples at cadence ΔT/(layers+1), mixed down by
// HeterodyneFrequency(first) relative to the start of the observation.
//
// The result is compact: pixel (i, m) sits at index i*layers + (m-first).
func (b *Basis) TransformLayers(data []float64, first, layers int) ([]float64, error) {
	return b.TransformSegment(data, 0, b.nt, first, layers)
}

// TransformSegment is TransformLayers restricted to the time pixels
// [start, start+size). data must hold size*(layers+1) samples beginning at
// time start*ΔT; the heterodyne phase is still referenced to the start of
// the observation. size must be even.
//
// The segment is treated as periodic; TaperPixels of Tukey ramp suppress the
// discontinuity at its ends.
func (b *Basis) TransformSegment(data []float64, start, size, first, layers int) ([]float64, error) {
	if layers < 1 || first < 1 || first+layers > b.nf {
		return nil, fmt.Errorf("%w: layers [%d, %d) with NF=%d", ErrLayerRange, first, first+layers, b.nf)
	}
	if size < 2 || size%2 != 0 || start < 0 || start+size > b.nt {
		return nil, fmt.Errorf("%w: pixels [%d, %d) with NT=%d", ErrSegmentRange, start, start+size, b.nt)
	}

	n := size * (layers + 1)
	if err := validateLength("data", len(data), n); err != nil {
		return nil, err
	}

	buf := append([]float64(nil), data...)
	if b.cfg.TaperPixels > 0 {
		alpha := min(b.cfg.TaperPixels/float64(size), 1)
		if err := window.ApplyTukey(buf, alpha); err != nil {
			return nil, fmt.Errorf("wdm: segment taper: %w", err)
		}
	}

	full, err := fft.Acquire(n)
	if err != nil {
		return nil, fmt.Errorf("wdm: segment transform: %w", err)
	}
	defer fft.Release(full)

	spec := make([]complex128, n/2+1)
	if err := full.RealForward(spec, buf); err != nil {
		return nil, fmt.Errorf("wdm: segment transform: %w", err)
	}

	plan, err := fft.Acquire(size)
	if err != nil {
		return nil, fmt.Errorf("wdm: segment transform: %w", err)
	}
	defer fft.Release(plan)

	filter := b.FrequencyWindow(size)
	row := make([]complex128, size)
	out := make([]float64, size*layers)

	scale := 2 * math.Sqrt(b.pixelDuration) / float64(layers+1)
	if (first-1)*start%2 != 0 {
		scale = -scale
	}

	for m := first; m < first+layers; m++ {
		h := (m - first + 1) * size / 2

		clear(row)
		for p := -size/2 + 1; p < size/2; p++ {
			u := filter[abs(p)]
			l := h + p
			if u == 0 || l < 0 || l > n/2 {
				continue
			}
			row[wrap(p, size)] = complex(u, 0) * spec[l]
		}
		if err := plan.Inverse(row, row); err != nil {
			return nil, fmt.Errorf("wdm: segment transform: %w", err)
		}

		col := m - first
		for i, z := range row {
			c := scale * ParityOf(start+i, m).Select(z)
			if m*i%2 != 0 {
				c = -c
			}
			out[i*layers+col] = c
		}
	}

	return out, nil
}
