package wdm

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tlittenberg/glass/dsp/interp"
	"github.com/tlittenberg/glass/logging"
)

// Table samples the response of a single layer to a locally linear chirp,
// as a function of the chirp's offset from the layer centre frequency and
// of its frequency derivative. The response is the same for every layer,
// so one table serves the whole basis.
//
// Slice n covers the derivative Fdot(n) with Size(n) offsets spaced
// FrequencyStep apart and centred on zero.
type Table struct {
	nf        int
	bandwidth float64

	df       float64
	fdot0    float64
	fdotStep float64

	sizes []int
	y, z  [][]float64
}

// BuildTable evaluates the table for b. Slices are computed concurrently;
// cancelling ctx stops the build between slices.
func BuildTable(ctx context.Context, b *Basis) (*Table, error) {
	cfg := b.cfg
	steps := cfg.FdotSteps
	if steps < 2 || cfg.FrequencySteps < 1 {
		return nil, fmt.Errorf("wdm: table needs >= 2 fdot steps and >= 1 frequency step, got %d and %d",
			steps, cfg.FrequencySteps)
	}

	bw := b.FilterBandwidth()
	twin := b.WindowDuration()

	t := &Table{
		nf:        b.nf,
		bandwidth: b.bandwidth,
		df:        bw / float64(cfg.FrequencySteps),
		fdotStep:  cfg.FdotResolution * b.bandwidth / twin,
		sizes:     make([]int, steps),
		y:         make([][]float64, steps),
		z:         make([][]float64, steps),
	}
	t.fdot0 = -float64(steps/2) * t.fdotStep

	for n := range t.sizes {
		size := int((bw + math.Abs(t.Fdot(n))*twin) / t.df)
		if size%2 != 0 {
			size++
		}
		t.sizes[n] = size
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for n := range steps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t.y[n], t.z[n] = t.slice(b, n)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("wdm: table build: %w", err)
	}

	cfg.Logger.Debug("wdm table", logging.Fields{
		"fdot_steps":     steps,
		"fdot_step":      t.fdotStep,
		"frequency_step": t.df,
		"max_size":       max(t.sizes[0], t.sizes[steps-1]),
	})

	return t, nil
}

// slice integrates the windowed chirp for every offset of slice n.
func (t *Table) slice(b *Basis, n int) (y, z []float64) {
	size := t.sizes[n]
	fdot := t.Fdot(n)
	w := b.window
	half := len(w) / 2
	scale := 0.5 * math.Sqrt2 * math.Sqrt(b.cadence)

	y = make([]float64, size)
	z = make([]float64, size)
	for e := range size {
		delta := t.offset(size, e)
		var c, s float64
		for k, wk := range w {
			tau := float64(k-half) * b.cadence
			sin, cos := math.Sincos(2*math.Pi*delta*tau + math.Pi*fdot*tau*tau)
			c += wk * cos
			s += wk * sin
		}
		y[e] = scale * c
		z[e] = scale * s
	}
	return y, z
}

func (t *Table) offset(size, e int) float64 {
	return (float64(e-size/2) + 0.5) * t.df
}

// Steps returns the number of frequency-derivative slices.
func (t *Table) Steps() int { return len(t.sizes) }

// Size returns the number of offsets in slice n.
func (t *Table) Size(n int) int { return t.sizes[n] }

// Fdot returns the frequency derivative of slice n in Hz/s.
func (t *Table) Fdot(n int) float64 { return t.fdot0 + float64(n)*t.fdotStep }

// FdotStep returns the derivative spacing in Hz/s.
func (t *Table) FdotStep() float64 { return t.fdotStep }

// FrequencyStep returns the offset spacing in Hz.
func (t *Table) FrequencyStep() float64 { return t.df }

// FrequencyMax returns (NF-1)*ΔF. Frequencies at or above it are not
// representable.
func (t *Table) FrequencyMax() float64 { return float64(t.nf-1) * t.bandwidth }

// FdotRange returns the open interval of derivatives the table can
// interpolate.
func (t *Table) FdotRange() (lo, hi float64) {
	return t.Fdot(0), t.Fdot(len(t.sizes) - 1)
}

// HalfBandwidth returns the largest offset from a layer centre at which
// the table holds samples for the given derivative.
func (t *Table) HalfBandwidth(fdot float64) float64 {
	n := t.slot(fdot)
	size := max(t.sizes[n], t.sizes[n+1])
	return 0.5 * float64(size-1) * t.df
}

// slot returns the lower slice bracketing fdot, clamped so that n+1 is a
// valid slice.
func (t *Table) slot(fdot float64) int {
	n, _ := interp.Cell(fdot, t.fdot0, t.fdotStep)
	return min(max(n, 0), len(t.sizes)-2)
}

// Lookup interpolates the response pair at the given offset from a layer
// centre and derivative. ok is false when fdot is outside FdotRange.
// Offsets beyond a slice's coverage read as zero.
func (t *Table) Lookup(delta, fdot float64) (y, z float64, ok bool) {
	lo, hi := t.FdotRange()
	if !(fdot >= lo && fdot < hi) {
		return 0, 0, false
	}

	n, dy := interp.Cell(fdot, t.fdot0, t.fdotStep)
	if n >= len(t.sizes)-1 {
		n, dy = len(t.sizes)-2, 1
	}

	// Offsets of every slice lie on the same half-integer grid, so one cell
	// position serves both slices.
	e, dx := interp.Cell(delta, 0.5*t.df, t.df)

	y = interp.Bilinear(dx, dy,
		t.at(t.y, n, e), t.at(t.y, n, e+1),
		t.at(t.y, n+1, e), t.at(t.y, n+1, e+1))
	z = interp.Bilinear(dx, dy,
		t.at(t.z, n, e), t.at(t.z, n, e+1),
		t.at(t.z, n+1, e), t.at(t.z, n+1, e+1))

	return y, z, true
}

// at reads entry e of slice n, where e counts offsets from the entry just
// above zero (e=0 is +δf/2, e=-1 is -δf/2).
func (t *Table) at(data [][]float64, n, e int) float64 {
	i := e + t.sizes[n]/2
	if i < 0 || i >= t.sizes[n] {
		return 0
	}
	return data[n][i]
}

// Coefficient returns the pixel value for a signal of amplitude amp and
// phase phase at the pixel centre, offset delta from the layer centre and
// drifting at fdot.
func (t *Table) Coefficient(p Parity, amp, phase, delta, fdot float64) (float64, bool) {
	y, z, ok := t.Lookup(delta, fdot)
	if !ok {
		return 0, false
	}
	sin, cos := math.Sincos(phase)
	return amp * p.Rotate(cos, sin, y, z), true
}
