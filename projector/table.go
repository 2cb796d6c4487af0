package projector

import (
	"fmt"
	"math"

	"github.com/tlittenberg/glass/dsp/wdm"
	"github.com/tlittenberg/glass/dsp/wdm/track"
)

// projectTable evaluates every active pixel from the lookup table using the
// local amplitude, phase, frequency and frequency derivative of each channel
// at the pixel centre.
func (p *Projector) projectTable(ws *workspace, dst *wdm.Sparse) error {
	b := p.basis
	tab := p.cfg.table
	nc := len(ws.chPhase)
	nt := len(p.pixelTimes)

	p.sampleFrequencies(ws)
	ws.amps = resize2(ws.amps, nc, nt)
	ws.phases = resize2(ws.phases, nc, nt)
	ws.fdots = resize2(ws.fdots, nc, nt)
	if cap(ws.samples) < nc {
		ws.samples = make([]track.Sample, nc)
	}
	ws.samples = ws.samples[:nc]

	for c := range nc {
		amp, phase := &ws.chAmp[c], &ws.chPhase[c]
		for i, t := range p.pixelTimes {
			ws.amps[c][i] = amp.At(t)
			ws.phases[c][i] = phase.At(t)
			ws.fdots[c][i] = phase.SecondDerivative(t) / (2 * math.Pi)
		}
		ws.samples[c] = track.Sample{Freq: ws.freqs[c], Fdot: ws.fdots[c]}
	}

	if err := track.Build(&ws.list, b, p.window, tab, ws.samples); err != nil {
		return fmt.Errorf("projector: active pixels: %w", err)
	}
	scatterIndex(dst, &ws.list, nc)

	for pos, rel := range ws.list.Index {
		i, m, _ := b.Pixel(rel + ws.list.Window.Min)
		parity := wdm.ParityOf(i, m)
		fm := b.LayerFrequency(m)
		for c := range nc {
			v, ok := tab.Coefficient(parity, ws.amps[c][i], ws.phases[c][i], ws.freqs[c][i]-fm, ws.fdots[c][i])
			if !ok {
				v = 0
			}
			dst.Values[c][pos] = v
		}
	}

	return nil
}
