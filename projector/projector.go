// Package projector computes the wavelet-domain representation of a single
// source in every detector channel.
//
// A Projector evaluates the source waveform and detector response on a
// coarse time grid, interpolates them with cubic splines and then follows
// one of two strategies. Heterodyne mixes each channel down to the source
// band and transforms it with wdm.Basis.TransformSegment; Table evaluates
// only the active pixels from a precomputed wdm.Table. Both write a
// wdm.Sparse.
package projector

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/tlittenberg/glass/dsp/interp"
	"github.com/tlittenberg/glass/dsp/wdm"
	"github.com/tlittenberg/glass/dsp/wdm/track"
	"github.com/tlittenberg/glass/logging"
	"github.com/tlittenberg/glass/response"
	"github.com/tlittenberg/glass/waveform"
)

var (
	// ErrNoTable is returned when the Table strategy is selected without a
	// table.
	ErrNoTable = errors.New("projector: table strategy requires WithTable")
	// ErrChannelMismatch is returned when a response produces a different
	// number of channels than it reports.
	ErrChannelMismatch = errors.New("projector: response channel count mismatch")
	// ErrInvalidOption is returned for out-of-range options.
	ErrInvalidOption = errors.New("projector: invalid option")
)

// Projector maps source parameters to sparse wavelet coefficients.
// Project is safe for concurrent use.
type Projector struct {
	basis    *wdm.Basis
	family   waveform.Family
	response response.Response
	cfg      config
	window   wdm.Window
	log      logging.Logger

	times      []float64 // coarse grid
	pixelTimes []float64

	pool sync.Pool
}

// workspace is the per-call scratch of Project.
type workspace struct {
	wave     waveform.Samples
	amp      interp.Spline
	phase    interp.Spline
	channels response.Channels

	chAmp   []interp.Spline
	chPhase []interp.Spline

	// Per channel, per time pixel.
	amps, phases, freqs, fdots [][]float64
	samples                    []track.Sample

	list track.List
	skip []bool
	fine []float64
}

// New returns a projector for sources of family fam seen through resp.
func New(b *wdm.Basis, fam waveform.Family, resp response.Response, opts ...Option) (*Projector, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.coarse < 3 {
		return nil, fmt.Errorf("%w: coarse size %d, need at least 3", ErrInvalidOption, cfg.coarse)
	}
	switch cfg.strategy {
	case Heterodyne:
	case Table:
		if cfg.table == nil {
			return nil, ErrNoTable
		}
	default:
		return nil, fmt.Errorf("%w: strategy %d", ErrInvalidOption, cfg.strategy)
	}
	if resp.Channels() < 1 {
		return nil, fmt.Errorf("%w: response has %d channels", ErrChannelMismatch, resp.Channels())
	}

	window := b.DefaultWindow()
	if cfg.window != nil {
		window = *cfg.window
	}
	if window.Min < 0 || window.Max > b.Len() || window.Len() <= 0 {
		return nil, fmt.Errorf("%w: window [%d, %d) outside [0, %d)", ErrInvalidOption, window.Min, window.Max, b.Len())
	}

	log := cfg.logger
	if log == nil {
		log = b.Logger()
	}

	p := &Projector{
		basis:    b,
		family:   fam,
		response: resp,
		cfg:      cfg,
		window:   window,
		log:      log,
		times:    floats.Span(make([]float64, cfg.coarse), 0, b.Duration()),
	}
	p.pixelTimes = make([]float64, b.TimePixels())
	for i := range p.pixelTimes {
		p.pixelTimes[i] = b.PixelTime(i)
	}
	p.pool.New = func() any { return &workspace{} }

	log.Debug("projector", logging.Fields{
		"family":   fam.Name(),
		"strategy": cfg.strategy.String(),
		"channels": resp.Channels(),
		"coarse":   cfg.coarse,
	})

	return p, nil
}

// Window returns the pixel window of the output.
func (p *Projector) Window() wdm.Window { return p.window }

// Strategy returns the projection path in use.
func (p *Projector) Strategy() Strategy { return p.cfg.strategy }

// Channels returns the number of output channels.
func (p *Projector) Channels() int { return p.response.Channels() }

// Capacity returns an upper bound on the active pixels of a source whose
// channels spread over at most spread Hz, for pre-sizing a wdm.Sparse.
func (p *Projector) Capacity(spread float64) int {
	var limits track.Limits = track.FilterLimits(p.basis)
	if p.cfg.strategy == Table {
		limits = p.cfg.table
	}
	return track.MaxActivePixels(p.basis, p.window, limits, spread)
}

// Project writes the coefficients of src with orientation ext to dst,
// replacing its contents.
func (p *Projector) Project(src waveform.Params, ext response.Extrinsic, dst *wdm.Sparse) error {
	ws := p.pool.Get().(*workspace)
	defer p.pool.Put(ws)

	if err := p.prepare(ws, src, ext); err != nil {
		return err
	}

	var err error
	switch p.cfg.strategy {
	case Table:
		err = p.projectTable(ws, dst)
	default:
		err = p.projectHeterodyne(ws, dst)
	}
	if err != nil {
		return err
	}

	p.sanitize(dst)
	return nil
}

// prepare evaluates the waveform and response on the coarse grid and fits
// one amplitude and one phase spline per channel.
func (p *Projector) prepare(ws *workspace, src waveform.Params, ext response.Extrinsic) error {
	if err := p.family.Generate(src, p.times, &ws.wave); err != nil {
		return fmt.Errorf("projector: %s waveform: %w", p.family.Name(), err)
	}
	if err := ws.amp.Refit(p.times, ws.wave.Amplitude); err != nil {
		return fmt.Errorf("projector: amplitude: %w", err)
	}
	if err := ws.phase.Refit(p.times, ws.wave.Phase); err != nil {
		return fmt.Errorf("projector: phase: %w", err)
	}

	if err := p.response.Project(ext, p.times, &ws.amp, &ws.phase, &ws.channels); err != nil {
		return fmt.Errorf("projector: response: %w", err)
	}

	nc := p.response.Channels()
	if len(ws.channels.Amplitude) != nc || len(ws.channels.Phase) != nc {
		return fmt.Errorf("%w: got %d/%d, want %d",
			ErrChannelMismatch, len(ws.channels.Amplitude), len(ws.channels.Phase), nc)
	}

	ws.chAmp = resizeSplines(ws.chAmp, nc)
	ws.chPhase = resizeSplines(ws.chPhase, nc)
	for c := range nc {
		if err := ws.chAmp[c].Refit(p.times, ws.channels.Amplitude[c]); err != nil {
			return fmt.Errorf("projector: channel %d amplitude: %w", c, err)
		}
		if err := ws.chPhase[c].Refit(p.times, ws.channels.Phase[c]); err != nil {
			return fmt.Errorf("projector: channel %d phase: %w", c, err)
		}
	}

	return nil
}

// sampleFrequencies fills ws.freqs with each channel's frequency at the
// time-pixel centres.
func (p *Projector) sampleFrequencies(ws *workspace) {
	nc := len(ws.chPhase)
	ws.freqs = resize2(ws.freqs, nc, len(p.pixelTimes))
	for c := range nc {
		for i, t := range p.pixelTimes {
			ws.freqs[c][i] = ws.chPhase[c].Derivative(t) / (2 * math.Pi)
		}
	}
}

// scatterIndex copies the active list into dst and sizes its values.
func scatterIndex(dst *wdm.Sparse, list *track.List, channels int) {
	dst.Reset(list.Window, channels)
	dst.Resize(list.Len())
	copy(dst.Index, list.Index)
}

// sanitize zeroes non-finite coefficients.
func (p *Projector) sanitize(dst *wdm.Sparse) {
	bad := 0
	for _, vals := range dst.Values {
		for n, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				vals[n] = 0
				bad++
			}
		}
	}
	if bad > 0 {
		p.log.Warn("projector: non-finite coefficients replaced by zero", logging.Fields{
			"count":  bad,
			"family": p.family.Name(),
		})
	}
}

func resizeSplines(s []interp.Spline, n int) []interp.Spline {
	if cap(s) < n {
		return append(s[:cap(s)], make([]interp.Spline, n-cap(s))...)
	}
	return s[:n]
}

func resize2(x [][]float64, rows, n int) [][]float64 {
	if cap(x) < rows {
		x = append(x[:cap(x)], make([][]float64, rows-cap(x))...)
	}
	x = x[:rows]
	for r := range x {
		if cap(x[r]) < n {
			x[r] = make([]float64, n)
		}
		x[r] = x[r][:n]
	}
	return x
}

func resize(x []float64, n int) []float64 {
	if cap(x) < n {
		return make([]float64, n)
	}
	return x[:n]
}
