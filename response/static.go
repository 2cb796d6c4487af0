package response

import (
	"fmt"
	"math"
)

// Pattern is the fixed antenna response of one channel: the gains to the
// plus and cross polarizations, a fixed delay in seconds and the channel's
// position in light-seconds from the origin of the time coordinate.
type Pattern struct {
	Plus, Cross float64
	Delay       float64
	Position    [3]float64
}

func (p Pattern) finite() bool {
	for _, v := range []float64{p.Plus, p.Cross, p.Delay, p.Position[0], p.Position[1], p.Position[2]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Static is a response with time-independent antenna patterns.
//
// For a source with polarization ψ and inclination ι the channel strain is
//
//	h(t) = A(t') [F₊ a₊ cos Φ(t') + Fₓ aₓ sin Φ(t')],  t' = t - delay
//
// with a₊ = (1+cos²ι)/2, aₓ = cos ι and the patterns rotated by 2ψ. It is
// returned as a single amplitude and a phase lag. A plane wave from
// direction n̂ reaches a channel at position r n̂·r seconds before it
// reaches the origin, so delay = Delay - n̂·r.
type Static struct {
	patterns []Pattern
}

// NewStatic returns a response with one channel per pattern.
func NewStatic(patterns ...Pattern) (*Static, error) {
	if len(patterns) == 0 {
		return nil, ErrNoChannels
	}
	for c, p := range patterns {
		if !p.finite() {
			return nil, fmt.Errorf("response: channel %d has a non-finite pattern %+v", c, p)
		}
	}
	return &Static{patterns: append([]Pattern(nil), patterns...)}, nil
}

// Channels implements Response.
func (s *Static) Channels() int { return len(s.patterns) }

// Gain returns the amplitude factor and phase lag of channel c.
func (s *Static) Gain(c int, ext Extrinsic) (gain, lag float64) {
	p := s.patterns[c]
	sin2, cos2 := math.Sincos(2 * ext.Polarization)
	fp := p.Plus*cos2 + p.Cross*sin2
	fc := -p.Plus*sin2 + p.Cross*cos2

	ci := math.Cos(ext.Inclination)
	x := fp * (1 + ci*ci) / 2
	y := fc * ci

	return math.Hypot(x, y), math.Atan2(y, x)
}

// Delay returns the arrival delay of channel c for a source at the sky
// position of ext.
func (s *Static) Delay(c int, ext Extrinsic) float64 {
	p := s.patterns[c]
	n := ext.Direction()
	return p.Delay - (n[0]*p.Position[0] + n[1]*p.Position[1] + n[2]*p.Position[2])
}

// Project implements Response.
func (s *Static) Project(ext Extrinsic, times []float64, amp, phase Interpolant, out *Channels) error {
	if err := ext.validate(); err != nil {
		return err
	}

	out.Resize(len(s.patterns), len(times))
	for c := range s.patterns {
		gain, lag := s.Gain(c, ext)
		delay := s.Delay(c, ext)
		for n, t := range times {
			t -= delay
			out.Amplitude[c][n] = gain * amp.At(t)
			out.Phase[c][n] = phase.At(t) - lag
		}
	}
	return nil
}
