package projector

import (
	"github.com/tlittenberg/glass/dsp/wdm"
	"github.com/tlittenberg/glass/logging"
)

// Strategy selects how a source is carried into the wavelet domain.
type Strategy int

const (
	// Heterodyne mixes each channel down to the source band and runs
	// narrow-band transforms over the layers it reaches.
	Heterodyne Strategy = iota
	// Table evaluates every active pixel from a precomputed wdm.Table.
	Table
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case Heterodyne:
		return "heterodyne"
	case Table:
		return "table"
	default:
		return "unknown"
	}
}

// Option configures a Projector.
type Option func(*config)

type config struct {
	strategy Strategy
	table    *wdm.Table
	window   *wdm.Window
	coarse   int
	padding  int
	doppler  float64
	logger   logging.Logger
}

func defaultConfig() config {
	return config{
		strategy: Heterodyne,
		coarse:   128,
		padding:  2,
		doppler:  1e-4,
	}
}

// WithStrategy selects the projection path. The default is Heterodyne.
func WithStrategy(s Strategy) Option {
	return func(cfg *config) { cfg.strategy = s }
}

// WithTable supplies the lookup table used by the Table strategy.
func WithTable(t *wdm.Table) Option {
	return func(cfg *config) { cfg.table = t }
}

// WithWindow restricts output to the pixels of w. The default is the
// basis DefaultWindow.
func WithWindow(w wdm.Window) Option {
	return func(cfg *config) { cfg.window = &w }
}

// WithCoarseSize sets the number of points at which the waveform and
// response are evaluated before spline interpolation. At least 3.
func WithCoarseSize(n int) Option {
	return func(cfg *config) { cfg.coarse = n }
}

// WithPadding sets the pixels added to each side of a layer's segment on
// the heterodyne path.
func WithPadding(pixels int) Option {
	return func(cfg *config) {
		if pixels >= 0 {
			cfg.padding = pixels
		}
	}
}

// WithDopplerMargin sets the fractional frequency margin added to the
// heterodyne band.
func WithDopplerMargin(margin float64) Option {
	return func(cfg *config) {
		if margin >= 0 {
			cfg.doppler = margin
		}
	}
}

// WithLogger sets the logger. The default is the basis logger.
func WithLogger(l logging.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}
