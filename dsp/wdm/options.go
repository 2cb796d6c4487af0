package wdm

import "github.com/tlittenberg/glass/logging"

// Config holds the tunable constants of a basis. The zero value is not
// useful; start from DefaultConfig.
type Config struct {
	// PixelDuration is the width ΔT of one time pixel in seconds.
	PixelDuration float64
	// SampleCadence is the sampling interval Δt of dense input data.
	// PixelDuration/SampleCadence is the layer count NF, which must be even.
	SampleCadence float64
	// FilterOrder is the order of the incomplete-beta taper of the
	// prototype filter.
	FilterOrder float64
	// Oversample sets the time-domain window length to 2*Oversample*NF.
	Oversample int
	// FrequencySteps is the number of lookup-table offsets across one
	// filter bandwidth.
	FrequencySteps int
	// FdotSteps is the number of lookup-table frequency-derivative slices.
	FdotSteps int
	// FdotResolution scales the derivative spacing of the lookup table in
	// units of ΔF per window duration.
	FdotResolution float64
	// TaperPixels is the Tukey ramp length, in time pixels, applied before
	// narrow-band transforms. Zero disables the taper.
	TaperPixels float64
	// Logger receives construction summaries and numerical warnings.
	Logger logging.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the constants used for space-borne detector data:
// 7680 s pixels sampled every 5 s (NF = 1536).
func DefaultConfig() Config {
	return Config{
		PixelDuration:  7680,
		SampleCadence:  5,
		FilterOrder:    4,
		Oversample:     16,
		FrequencySteps: 400,
		FdotSteps:      50,
		FdotResolution: 0.1,
		TaperPixels:    8,
	}
}

// WithPixelDuration sets the time-pixel width ΔT in seconds.
func WithPixelDuration(seconds float64) Option {
	return func(cfg *Config) {
		if seconds > 0 {
			cfg.PixelDuration = seconds
		}
	}
}

// WithSampleCadence sets the dense-data sampling interval in seconds.
func WithSampleCadence(seconds float64) Option {
	return func(cfg *Config) {
		if seconds > 0 {
			cfg.SampleCadence = seconds
		}
	}
}

// WithFilterOrder sets the incomplete-beta order of the filter taper.
func WithFilterOrder(order float64) Option {
	return func(cfg *Config) {
		if order > 0 {
			cfg.FilterOrder = order
		}
	}
}

// WithOversample sets the window oversampling factor.
func WithOversample(factor int) Option {
	return func(cfg *Config) {
		if factor > 0 {
			cfg.Oversample = factor
		}
	}
}

// WithTableResolution sets the lookup-table grid.
func WithTableResolution(frequencySteps, fdotSteps int, fdotResolution float64) Option {
	return func(cfg *Config) {
		if frequencySteps > 0 {
			cfg.FrequencySteps = frequencySteps
		}
		if fdotSteps > 1 {
			cfg.FdotSteps = fdotSteps
		}
		if fdotResolution > 0 {
			cfg.FdotResolution = fdotResolution
		}
	}
}

// WithTaperPixels sets the Tukey ramp length in time pixels. Zero disables
// tapering.
func WithTaperPixels(pixels float64) Option {
	return func(cfg *Config) {
		if pixels >= 0 {
			cfg.TaperPixels = pixels
		}
	}
}

// WithLogger sets the logger. A nil logger keeps the global logger.
func WithLogger(l logging.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetGlobalLogger()
	}
	return cfg
}
