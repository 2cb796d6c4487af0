// Package window provides the edge tapers applied to finite data segments
// before they are Fourier transformed.
//
// The Tukey window is flat in the middle and rolls off with raised-cosine
// ramps of alpha*(N-1)/2 samples at each edge:
//
//	w, err := window.Tukey(1024, 0.1)
//	err = window.ApplyTukey(segment, 8.0/float64(timePixels))
//
// ApplyTukey only touches the ramps and never allocates, which makes it
// suitable for the per-source projection hot path.
package window
