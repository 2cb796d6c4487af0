package wdm

// Index maps pixel (i, j) to its flat index i + j*NT. ok is false when
// either coordinate is out of range.
func (b *Basis) Index(i, j int) (k int, ok bool) {
	if i < 0 || i >= b.nt || j < 0 || j >= b.nf {
		return 0, false
	}
	return i + j*b.nt, true
}

// Pixel is the inverse of Index.
func (b *Basis) Pixel(k int) (i, j int, ok bool) {
	if k < 0 || k >= b.nt*b.nf {
		return 0, 0, false
	}
	return k % b.nt, k / b.nt, true
}

// Window is a contiguous range [Min, Max) of flat pixel indices. Sparse
// coefficient sets index relative to Min.
type Window struct {
	Min, Max int
}

// Contains reports whether flat index k lies in the window.
func (w Window) Contains(k int) bool { return k >= w.Min && k < w.Max }

// Len returns the number of pixels in the window.
func (w Window) Len() int {
	if w.Max < w.Min {
		return 0
	}
	return w.Max - w.Min
}

// DefaultWindow spans layers 1 through NF-2, leaving out the shared
// DC/Nyquist layer and the top layer.
func (b *Basis) DefaultWindow() Window {
	return Window{Min: b.nt, Max: (b.nf - 1) * b.nt}
}

// LayerWindow covers layers first through last inclusive, clamped to
// [0, NF).
func (b *Basis) LayerWindow(first, last int) Window {
	first = max(first, 0)
	last = min(last, b.nf-1)
	if last < first {
		return Window{Min: first * b.nt, Max: first * b.nt}
	}
	return Window{Min: first * b.nt, Max: (last + 1) * b.nt}
}

// FullWindow covers every pixel.
func (b *Basis) FullWindow() Window {
	return Window{Max: b.nt * b.nf}
}

// LayerFrequency returns the centre frequency j*ΔF of layer j in Hz.
func (b *Basis) LayerFrequency(j int) float64 { return float64(j) * b.bandwidth }

// PixelTime returns the centre time i*ΔT of time pixel i, relative to the
// start of the observation.
func (b *Basis) PixelTime(i int) float64 { return float64(i) * b.pixelDuration }

// HeterodyneFrequency returns the carrier removed from a signal before a
// narrow-band transform starting at layer first: (first-1)*ΔF. After
// mixing, layer first sits one ΔF above zero frequency.
func (b *Basis) HeterodyneFrequency(first int) float64 {
	return float64(first-1) * b.bandwidth
}
