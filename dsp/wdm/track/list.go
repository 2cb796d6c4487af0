package track

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/tlittenberg/glass/dsp/wdm"
)

// Limits bounds the frequencies and frequency derivatives a projection path
// can represent. *wdm.Table implements it.
type Limits interface {
	// FrequencyMax is the exclusive upper frequency bound in Hz.
	FrequencyMax() float64
	// FdotRange is the accepted derivative interval [lo, hi) in Hz/s.
	FdotRange() (lo, hi float64)
	// HalfBandwidth is the furthest a pixel's layer centre may sit from the
	// source frequency, for the given derivative.
	HalfBandwidth(fdot float64) float64
}

type filterLimits struct {
	fmax, hbw float64
}

func (l filterLimits) FrequencyMax() float64         { return l.fmax }
func (l filterLimits) FdotRange() (float64, float64) { return math.Inf(-1), math.Inf(1) }
func (l filterLimits) HalfBandwidth(float64) float64 { return l.hbw }

// FilterLimits returns the limits of the basis filter itself: any
// derivative, frequencies below (NF-1)*ΔF and a reach of 3ΔF/4.
func FilterLimits(b *wdm.Basis) Limits {
	return filterLimits{
		fmax: b.LayerFrequency(b.Layers() - 1),
		hbw:  support * b.Bandwidth(),
	}
}

// Representable reports whether a channel at frequency f with derivative
// fdot is inside limits: f finite and below FrequencyMax, fdot in FdotRange.
func Representable(limits Limits, f, fdot float64) bool {
	if !finite(f) || fdot != fdot {
		return false
	}
	fdotLo, fdotHi := limits.FdotRange()
	return f < limits.FrequencyMax() && fdot >= fdotLo && fdot < fdotHi
}

// Sample is the instantaneous frequency and frequency derivative of one
// channel at every time pixel centre.
type Sample struct {
	Freq []float64
	Fdot []float64
}

// List is the set of active pixels of a source inside a window.
type List struct {
	Window wdm.Window
	// Index holds window-relative flat indices in time-major order.
	Index []int
	// Reverse maps a window-relative index to its position in Index, or -1.
	Reverse []int
	// First and Last give the active layer range of each time pixel;
	// First[i] > Last[i] when pixel i has none.
	First, Last []int
}

// Len returns the number of active pixels.
func (l *List) Len() int { return len(l.Index) }

// Position returns the position of window-relative index k in Index, or -1.
func (l *List) Position(k int) int {
	if k < 0 || k >= len(l.Reverse) {
		return -1
	}
	return l.Reverse[k]
}

// reset prepares dst for a window, clearing only the reverse entries the
// previous build set.
func (l *List) reset(w wdm.Window, nt int) {
	if l.Window != w || len(l.Reverse) != w.Len() {
		l.Reverse = resizeFilled(l.Reverse, w.Len(), -1)
	} else {
		for _, k := range l.Index {
			l.Reverse[k] = -1
		}
	}
	l.Window = w
	l.Index = l.Index[:0]
	l.First = resizeFilled(l.First, nt, 0)
	l.Last = resizeFilled(l.Last, nt, -1)
}

func resizeFilled(x []int, n, v int) []int {
	if cap(x) < n {
		x = make([]int, n)
	}
	x = x[:n]
	for i := range x {
		x[i] = v
	}
	return x
}

// Build fills dst with the pixels within reach of any channel. A time pixel
// where some channel is not Representable is skipped for every channel.
func Build(dst *List, b *wdm.Basis, window wdm.Window, limits Limits, samples []Sample) error {
	nt := b.TimePixels()
	for c, s := range samples {
		if len(s.Freq) != nt || len(s.Fdot) != nt {
			return fmt.Errorf("%w: channel %d has %d/%d samples, want %d",
				wdm.ErrLengthMismatch, c, len(s.Freq), len(s.Fdot), nt)
		}
	}

	dst.reset(window, nt)

	df := b.Bandwidth()
	top := b.Layers() - 1

	for i := range nt {
		first, last := top+1, -1
		for _, s := range samples {
			f, fdot := s.Freq[i], s.Fdot[i]
			if !Representable(limits, f, fdot) {
				first, last = top+1, -1
				break
			}
			hbw := limits.HalfBandwidth(fdot)
			first = min(first, int(math.Ceil((f-hbw)/df)))
			last = max(last, int(math.Floor((f+hbw)/df)))
		}
		if last < 0 {
			continue
		}

		first = lo.Clamp(first, 0, top)
		last = lo.Clamp(last, 0, top)
		dst.First[i], dst.Last[i] = first, last

		for j := first; j <= last; j++ {
			dst.add(b, i, j)
		}
	}

	return nil
}

// FromTrack fills dst with every pixel of every segment of t.
func FromTrack(dst *List, b *wdm.Basis, window wdm.Window, t *Track) {
	nt := b.TimePixels()
	dst.reset(window, nt)

	lower, upper := t.Layers()
	for i := range nt {
		first, last := upper+1, -1
		for m := lower; m <= upper; m++ {
			start, size := t.Segment(m)
			if i < start || i >= start+size {
				continue
			}
			first = min(first, m)
			last = max(last, m)
			dst.add(b, i, m)
		}
		if last >= 0 {
			dst.First[i], dst.Last[i] = first, last
		}
	}
}

// DropTimes removes every pixel whose time index i satisfies drop, keeping
// Index in order and Reverse consistent.
func (l *List) DropTimes(b *wdm.Basis, drop func(i int) bool) {
	n := 0
	for _, rel := range l.Index {
		i, _, _ := b.Pixel(rel + l.Window.Min)
		if drop(i) {
			l.Reverse[rel] = -1
			continue
		}
		l.Index[n] = rel
		l.Reverse[rel] = n
		n++
	}
	l.Index = l.Index[:n]

	for i := range l.First {
		if drop(i) {
			l.First[i], l.Last[i] = 0, -1
		}
	}
}

func (l *List) add(b *wdm.Basis, i, j int) {
	k, _ := b.Index(i, j)
	if !l.Window.Contains(k) {
		return
	}
	rel := k - l.Window.Min
	l.Reverse[rel] = len(l.Index)
	l.Index = append(l.Index, rel)
}

// MaxActivePixels bounds the number of active pixels of a source whose
// channels spread over at most spread Hz at any one time.
func MaxActivePixels(b *wdm.Basis, window wdm.Window, limits Limits, spread float64) int {
	hbw := limits.HalfBandwidth(0)
	fdotLo, fdotHi := limits.FdotRange()
	if !math.IsInf(fdotLo, 0) {
		hbw = max(hbw, limits.HalfBandwidth(fdotLo))
	}
	if !math.IsInf(fdotHi, 0) {
		hbw = max(hbw, limits.HalfBandwidth(fdotHi))
	}

	perPixel := lo.Clamp(int((math.Abs(spread)+2*hbw)/b.Bandwidth())+2, 1, b.Layers())
	return min(perPixel*b.TimePixels(), window.Len())
}
