package waveform

import "math"

// Monochromatic is a constant-amplitude sinusoid at Params.Frequency. The
// derivative terms are ignored.
type Monochromatic struct{}

// Name implements Family.
func (Monochromatic) Name() string { return "monochromatic" }

// Generate implements Family.
func (Monochromatic) Generate(p Params, times []float64, out *Samples) error {
	if err := p.Validate(); err != nil {
		return err
	}

	out.Resize(len(times))
	for n, t := range times {
		tau := t - p.RefTime
		out.Amplitude[n] = p.Amplitude
		out.Phase[n] = p.Phase + 2*math.Pi*p.Frequency*tau
		out.Frequency[n] = p.Frequency
	}
	return nil
}

// Chirp is a constant-amplitude signal whose frequency follows a second
// order Taylor expansion about the reference time:
//
//	f(τ) = f + ḟτ + f̈τ²/2
//
// This is the slowly evolving binary model used for galactic binaries.
type Chirp struct{}

// Name implements Family.
func (Chirp) Name() string { return "chirp" }

// Generate implements Family.
func (Chirp) Generate(p Params, times []float64, out *Samples) error {
	if err := p.Validate(); err != nil {
		return err
	}

	out.Resize(len(times))
	for n, t := range times {
		tau := t - p.RefTime
		out.Amplitude[n] = p.Amplitude
		out.Phase[n] = p.Phase + 2*math.Pi*tau*(p.Frequency+tau*(p.Fdot/2+tau*p.Fddot/6))
		out.Frequency[n] = p.Frequency + tau*(p.Fdot+tau*p.Fddot/2)
	}
	return nil
}
