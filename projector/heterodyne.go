package projector

import (
	"fmt"
	"math"

	"github.com/tlittenberg/glass/dsp/wdm"
	"github.com/tlittenberg/glass/dsp/wdm/track"
	"github.com/tlittenberg/glass/logging"
)

type segment struct {
	start, size int
}

// projectHeterodyne picks the layers the source reaches, mixes every channel
// down by the frequency of the layer below the first one and runs one
// narrow-band transform per distinct track segment.
func (p *Projector) projectHeterodyne(ws *workspace, dst *wdm.Sparse) error {
	b := p.basis
	nc := len(ws.chPhase)

	fmin, fmax := math.Inf(1), math.Inf(-1)
	for c := range nc {
		for _, t := range p.times {
			f := ws.chPhase[c].Derivative(t) / (2 * math.Pi)
			fmin = min(fmin, f)
			fmax = max(fmax, f)
		}
	}

	first, last := track.Band(b, fmin, fmax, p.cfg.doppler)
	layers := last - first + 1

	p.sampleFrequencies(ws)
	tr, err := track.NewTrack(b, first, last, ws.freqs, track.WithPadding(p.cfg.padding))
	if err != nil {
		return fmt.Errorf("projector: track: %w", err)
	}

	track.FromTrack(&ws.list, b, p.window, tr)
	if p.markUnrepresentable(ws) {
		ws.list.DropTimes(b, func(i int) bool { return ws.skip[i] })
	}
	scatterIndex(dst, &ws.list, nc)

	var done []segment
	for m := first; m <= last; m++ {
		start, size := tr.Segment(m)
		seg := segment{start, size}
		if size == 0 || contains(done, seg) {
			continue
		}
		done = append(done, seg)

		for c := range nc {
			coeffs, err := p.transform(ws, c, seg, first, layers)
			if err != nil {
				return err
			}
			p.scatterSegment(dst, &ws.list, tr, seg, coeffs, first, layers, c)
		}
	}

	return nil
}

// markUnrepresentable flags the time pixels where some channel sits at or
// above the top layer or has no finite frequency. It reports whether any
// pixel was flagged.
func (p *Projector) markUnrepresentable(ws *workspace) bool {
	limits := track.FilterLimits(p.basis)
	nt := len(p.pixelTimes)
	if cap(ws.skip) < nt {
		ws.skip = make([]bool, nt)
	}
	ws.skip = ws.skip[:nt]

	flagged := 0
	for i := range nt {
		ws.skip[i] = false
		for _, freq := range ws.freqs {
			if !track.Representable(limits, freq[i], 0) {
				ws.skip[i] = true
				flagged++
				break
			}
		}
	}
	if flagged > 0 {
		p.log.Debug("projector: time pixels above the top layer dropped", logging.Fields{
			"count":  flagged,
			"family": p.family.Name(),
		})
	}
	return flagged > 0
}

// transform returns the compact coefficients of channel c over seg.
func (p *Projector) transform(ws *workspace, c int, seg segment, first, layers int) ([]float64, error) {
	b := p.basis
	amp, phase := &ws.chAmp[c], &ws.chPhase[c]

	n := seg.size * (layers + 1)
	dt := b.PixelDuration() / float64(layers+1)
	t0 := b.PixelTime(seg.start)
	w := 2 * math.Pi * b.HeterodyneFrequency(first)

	ws.fine = resize(ws.fine, n)
	for s := range n {
		t := t0 + float64(s)*dt
		ws.fine[s] = amp.At(t) * math.Cos(phase.At(t)-w*t)
	}

	var (
		coeffs []float64
		err    error
	)
	if seg.start == 0 && seg.size == b.TimePixels() {
		coeffs, err = b.TransformLayers(ws.fine, first, layers)
	} else {
		coeffs, err = b.TransformSegment(ws.fine, seg.start, seg.size, first, layers)
	}
	if err != nil {
		return nil, fmt.Errorf("projector: channel %d segment [%d, %d): %w",
			c, seg.start, seg.start+seg.size, err)
	}
	return coeffs, nil
}

// scatterSegment copies the coefficients of every layer whose segment is seg
// into channel c of dst.
func (p *Projector) scatterSegment(dst *wdm.Sparse, list *track.List, tr *track.Track,
	seg segment, coeffs []float64, first, layers, c int) {
	b := p.basis
	_, last := tr.Layers()
	for m := first; m <= last; m++ {
		if start, size := tr.Segment(m); start != seg.start || size != seg.size {
			continue
		}
		for i := seg.start; i < seg.start+seg.size; i++ {
			k, _ := b.Index(i, m)
			pos := list.Position(k - list.Window.Min)
			if pos < 0 {
				continue
			}
			dst.Values[c][pos] = coeffs[(i-seg.start)*layers+m-first]
		}
	}
}

func contains(segs []segment, s segment) bool {
	for _, x := range segs {
		if x == s {
			return true
		}
	}
	return false
}
