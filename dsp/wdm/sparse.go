package wdm

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Sparse holds the non-zero coefficients of one source in every channel.
// Index entries are flat pixel indices relative to Window.Min; Values[c] is
// parallel to Index for channel c. Pixels not listed are zero.
type Sparse struct {
	Window Window
	Index  []int
	Values [][]float64
}

// NewSparse allocates a set for the given channel count with room for
// capacity pixels.
func NewSparse(channels, capacity int) *Sparse {
	s := &Sparse{
		Index:  make([]int, 0, capacity),
		Values: make([][]float64, channels),
	}
	for c := range s.Values {
		s.Values[c] = make([]float64, 0, capacity)
	}
	return s
}

// Reset empties the set and sets its window, keeping allocated storage.
func (s *Sparse) Reset(w Window, channels int) {
	s.Window = w
	s.Index = s.Index[:0]
	if cap(s.Values) < channels {
		s.Values = append(s.Values[:cap(s.Values)], make([][]float64, channels-cap(s.Values))...)
	}
	s.Values = s.Values[:channels]
	for c := range s.Values {
		s.Values[c] = s.Values[c][:0]
	}
}

// Resize sets the pixel count to n, growing storage when needed. Existing
// entries up to n are kept; new entries are zero.
func (s *Sparse) Resize(n int) {
	s.Index = resize(s.Index, n)
	for c := range s.Values {
		s.Values[c] = resize(s.Values[c], n)
	}
}

func resize[T int | float64](x []T, n int) []T {
	if cap(x) < n {
		grown := make([]T, n, n+n/4)
		copy(grown, x)
		return grown
	}
	old := len(x)
	x = x[:n]
	if n > old {
		clear(x[old:])
	}
	return x
}

// Len returns the number of stored pixels.
func (s *Sparse) Len() int { return len(s.Index) }

// Channels returns the number of channels.
func (s *Sparse) Channels() int { return len(s.Values) }

// Power returns the sum of squared coefficients of channel c.
func (s *Sparse) Power(c int) float64 {
	v := s.Values[c]
	return vecmath.DotProduct(v, v)
}

// Dense expands channel c into a slice covering the set's window.
func (s *Sparse) Dense(c int) ([]float64, error) {
	if c < 0 || c >= len(s.Values) {
		return nil, fmt.Errorf("wdm: channel %d of %d", c, len(s.Values))
	}

	out := make([]float64, s.Window.Len())
	for n, k := range s.Index {
		if k < 0 || k >= len(out) {
			return nil, fmt.Errorf("%w: index %d outside window of %d pixels", ErrLengthMismatch, k, len(out))
		}
		out[k] += s.Values[c][n]
	}
	return out, nil
}
