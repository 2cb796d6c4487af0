package wdm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext"

	"github.com/tlittenberg/glass/internal/fft"
	"github.com/tlittenberg/glass/logging"
)

// Basis is an immutable WDM tiling of one observation.
type Basis struct {
	cfg Config

	nt, nf     int
	oversample int

	pixelDuration float64 // ΔT
	cadence       float64 // Δt
	bandwidth     float64 // ΔF

	dOmega float64 // 2π ΔF
	a, b   float64 // inner and outer filter half-bandwidths, rad/s

	window []float64
}

// NewBasis builds the basis for an observation of the given duration in
// seconds. The duration is floored to a whole, even number of time pixels.
func NewBasis(duration float64, opts ...Option) (*Basis, error) {
	if err := validateDuration(duration); err != nil {
		return nil, err
	}

	cfg := ApplyOptions(opts...)

	if cfg.Oversample < 1 || !(cfg.FilterOrder > 0) {
		return nil, fmt.Errorf("%w: oversample %d, order %v", ErrInvalidOversample, cfg.Oversample, cfg.FilterOrder)
	}

	ratio := cfg.PixelDuration / cfg.SampleCadence
	nf := int(math.Round(ratio))
	if nf < 2 || nf%2 != 0 || math.Abs(ratio-float64(nf)) > 1e-9*ratio {
		return nil, fmt.Errorf("%w: %v / %v", ErrInvalidCadence, cfg.PixelDuration, cfg.SampleCadence)
	}

	nt := int(math.Floor(duration/cfg.PixelDuration)) &^ 1
	if nt < 2 {
		return nil, fmt.Errorf("%w: %v s with %v s pixels", ErrTooShort, duration, cfg.PixelDuration)
	}

	b := &Basis{
		cfg:           cfg,
		nt:            nt,
		nf:            nf,
		oversample:    cfg.Oversample,
		pixelDuration: cfg.PixelDuration,
		cadence:       cfg.PixelDuration / float64(nf),
		bandwidth:     1 / (2 * cfg.PixelDuration),
	}

	b.dOmega = 2 * math.Pi * b.bandwidth
	b.b = b.dOmega / 2
	b.a = (b.dOmega - b.b) / 2

	if err := b.buildWindow(); err != nil {
		return nil, err
	}

	cfg.Logger.Debug("wdm basis", logging.Fields{
		"time_pixels":    b.nt,
		"layers":         b.nf,
		"pixel_duration": b.pixelDuration,
		"cadence":        b.cadence,
		"bandwidth":      b.bandwidth,
		"window":         len(b.window),
	})

	return b, nil
}

// buildWindow samples the filter on the window's frequency grid and
// transforms it to a time-domain window centred on sample K/2.
func (b *Basis) buildWindow() error {
	k := 2 * b.oversample * b.nf

	plan, err := fft.Acquire(k)
	if err != nil {
		return fmt.Errorf("wdm: window transform: %w", err)
	}
	defer fft.Release(plan)

	// Bin l sits at ω/dΩ = l/oversample.
	norm := math.Sqrt(2 * float64(b.nf))
	half := make([]complex128, k/2+1)
	for l := range half {
		half[l] = complex(norm*b.shape(float64(l)/float64(b.oversample)), 0)
	}

	periodic := make([]float64, k)
	if err := plan.RealInverse(periodic, half); err != nil {
		return fmt.Errorf("wdm: window transform: %w", err)
	}

	b.window = make([]float64, k)
	copy(b.window[:k/2], periodic[k/2:])
	copy(b.window[k/2:], periodic[:k/2])

	return nil
}

// shape is the prototype filter normalized to a flat value of one, as a
// function of u = ω/dΩ. It is flat for |u| < 1/4, rolls off over
// 1/4 <= |u| < 3/4 and vanishes beyond.
func (b *Basis) shape(u float64) float64 {
	u = math.Abs(u)
	switch {
	case u < 0.25:
		return 1
	case u >= 0.75:
		return 0
	}
	x := (u - 0.25) / 0.5
	y := mathext.RegIncBeta(b.cfg.FilterOrder, b.cfg.FilterOrder, x)
	return math.Cos(0.5 * math.Pi * y)
}

// Filter evaluates the prototype frequency-domain filter φ̃(ω), with ω in
// rad/s. It equals 1/sqrt(dΩ) for |ω| < A, tapers to zero over
// A <= |ω| < A+B and vanishes beyond.
func (b *Basis) Filter(omega float64) float64 {
	return b.shape(omega/b.dOmega) / math.Sqrt(b.dOmega)
}

// FrequencyWindow returns the discrete filter on the frequency grid of a
// segment of size time pixels, for bin offsets 0..size/2 from a layer
// centre. The flat value is one.
func (b *Basis) FrequencyWindow(size int) []float64 {
	w := make([]float64, size/2+1)
	for p := range w {
		w[p] = b.shape(2 * float64(p) / float64(size))
	}
	return w
}

// TimePixels returns NT.
func (b *Basis) TimePixels() int { return b.nt }

// Layers returns NF.
func (b *Basis) Layers() int { return b.nf }

// Len returns NT*NF, the number of pixels and of dense samples.
func (b *Basis) Len() int { return b.nt * b.nf }

// PixelDuration returns ΔT in seconds.
func (b *Basis) PixelDuration() float64 { return b.pixelDuration }

// Cadence returns the dense sampling interval Δt = ΔT/NF in seconds.
func (b *Basis) Cadence() float64 { return b.cadence }

// Bandwidth returns the layer spacing ΔF in Hz.
func (b *Basis) Bandwidth() float64 { return b.bandwidth }

// Duration returns NT*ΔT, the floored observation length.
func (b *Basis) Duration() float64 { return float64(b.nt) * b.pixelDuration }

// FilterEdges returns the inner (flat) and outer (taper) half-bandwidths A
// and B in rad/s.
func (b *Basis) FilterEdges() (a, bw float64) { return b.a, b.b }

// FilterBandwidth returns (A+B)/π, the full two-sided filter support in Hz.
func (b *Basis) FilterBandwidth() float64 { return (b.a + b.b) / math.Pi }

// Oversample returns the window oversampling factor.
func (b *Basis) Oversample() int { return b.oversample }

// Window returns a copy of the time-domain window (unit L2 norm, centred
// on sample len/2).
func (b *Basis) Window() []float64 {
	return append([]float64(nil), b.window...)
}

// WindowDuration returns the window length in seconds.
func (b *Basis) WindowDuration() float64 { return float64(len(b.window)) * b.cadence }

// Config returns the configuration the basis was built with.
func (b *Basis) Config() Config { return b.cfg }

// Logger returns the basis logger.
func (b *Basis) Logger() logging.Logger { return b.cfg.Logger }
