// Package track works out which wavelet pixels a source can touch.
//
// Band picks the layers a source's frequency range can reach. A Track
// records, per layer, the segment of time pixels a narrow-band transform
// has to cover. A List is the flat set of active pixels inside a window,
// with an O(1) reverse lookup used to scatter projected coefficients.
package track

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/samber/lo"

	"github.com/tlittenberg/glass/dsp/wdm"
	"github.com/tlittenberg/glass/logging"
)

// support is the half-width of a layer's filter in units of ΔF.
const support = 0.75

// Band returns the layers [first, last] whose filter support intersects
// [fmin*(1-doppler), fmax*(1+doppler)], clamped to [1, NF-1]. A NaN or
// infinite fmin falls back to 1/T and a NaN or infinite fmax to fmin.
func Band(b *wdm.Basis, fmin, fmax, doppler float64) (first, last int) {
	if !finite(fmin) {
		fallback := 1 / b.Duration()
		b.Logger().Warn("track: non-finite minimum frequency, using 1/T",
			logging.Fields{"fmin": fmin, "fallback": fallback})
		fmin = fallback
	}
	if !finite(fmax) {
		b.Logger().Warn("track: non-finite maximum frequency, using minimum",
			logging.Fields{"fmax": fmax, "fallback": fmin})
		fmax = fmin
	}
	if fmax < fmin {
		fmin, fmax = fmax, fmin
	}

	df := b.Bandwidth()
	lower := fmin * (1 - doppler) / df
	upper := fmax * (1 + doppler) / df

	first = int(math.Floor(lower-support)) + 1
	last = int(math.Ceil(upper+support)) - 1

	top := b.Layers() - 1
	first = lo.Clamp(first, 1, top)
	last = lo.Clamp(last, first, top)

	return first, last
}

func finite(v float64) bool {
	return v == v && !math.IsInf(v, 0)
}

// Track holds, for each layer in [First, Last], the time-pixel segment a
// narrow-band transform must cover. Layers no channel reaches have a
// zero-size segment.
type Track struct {
	first, last int
	nt          int
	start, size []int
}

// Option configures NewTrack.
type Option func(*config)

type config struct {
	padding int
}

// WithPadding sets the number of pixels added on each side of the span a
// source occupies in a layer. The default is 2.
func WithPadding(pixels int) Option {
	return func(cfg *config) {
		if pixels >= 0 {
			cfg.padding = pixels
		}
	}
}

// NewTrack builds the track of a source over layers [first, last] from the
// frequency of each channel at every time pixel (len NT per channel). NaN
// samples are ignored.
func NewTrack(b *wdm.Basis, first, last int, freqs [][]float64, opts ...Option) (*Track, error) {
	cfg := config{padding: 2}
	for _, opt := range opts {
		opt(&cfg)
	}

	nt := b.TimePixels()
	if first < 1 || last < first || last >= b.Layers() {
		return nil, fmt.Errorf("%w: track layers [%d, %d]", wdm.ErrLayerRange, first, last)
	}
	for c, f := range freqs {
		if len(f) != nt {
			return nil, fmt.Errorf("%w: channel %d has %d frequency samples, want %d", wdm.ErrLengthMismatch, c, len(f), nt)
		}
	}

	t := &Track{
		first: first,
		last:  last,
		nt:    nt,
		start: make([]int, last-first+1),
		size:  make([]int, last-first+1),
	}

	df := b.Bandwidth()
	for m := first; m <= last; m++ {
		lower, upper := nt, -1
		centre := b.LayerFrequency(m)
		for i := range nt {
			for _, f := range freqs {
				if math.Abs(f[i]-centre) < support*df {
					lower = min(lower, i)
					upper = max(upper, i)
				}
			}
		}
		if upper < 0 {
			continue
		}

		lower = max(lower-cfg.padding, 0)
		upper = min(upper+cfg.padding, nt-1)

		size := segmentSize(upper-lower+1, nt)
		mid := (lower + upper + 1) / 2
		start := lo.Clamp(mid-size/2, 0, nt-size)

		t.start[m-first] = start
		t.size[m-first] = size
	}

	return t, nil
}

// segmentSize rounds width up to a power of two, falling back to the whole
// timeline when that is shorter.
func segmentSize(width, nt int) int {
	if width <= 2 {
		return min(2, nt)
	}
	size := 1 << bits.Len(uint(width-1))
	if size > nt {
		return nt
	}
	return size
}

// Layers returns the first and last layer of the track.
func (t *Track) Layers() (first, last int) { return t.first, t.last }

// Segment returns the time-pixel segment of layer m. size is zero for
// layers outside the track or not reached by the source.
func (t *Track) Segment(m int) (start, size int) {
	if m < t.first || m > t.last {
		return 0, 0
	}
	return t.start[m-t.first], t.size[m-t.first]
}

// Midpoint returns the centre time pixel of layer m's segment, or -1 when
// the layer has no segment.
func (t *Track) Midpoint(m int) int {
	start, size := t.Segment(m)
	if size == 0 {
		return -1
	}
	return start + size/2
}

// Full reports whether every reached layer spans the whole timeline, in
// which case one whole-timeline transform is cheaper than per-layer
// segments.
func (t *Track) Full() bool {
	reached := false
	for _, s := range t.size {
		if s == 0 {
			continue
		}
		if s != t.nt {
			return false
		}
		reached = true
	}
	return reached
}
