package testutil

import (
	"math"
	"math/rand"
	randv2 "math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sinusoid samples amp*cos(2*pi*freq*t + phase) at t = i*cadence.
func Sinusoid(amp, freq, phase, cadence float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		t := float64(i) * cadence
		out[i] = amp * math.Cos(2*math.Pi*freq*t+phase)
	}
	return out
}

// Chirp samples a linear chirp amp*cos(2*pi*(f0*t + fdot*t^2/2)) at
// t = i*cadence.
func Chirp(amp, f0, fdot, cadence float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		t := float64(i) * cadence
		out[i] = amp * math.Cos(2*math.Pi*(f0*t+0.5*fdot*t*t))
	}
	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude)
// with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// GaussianNoise generates zero-mean Gaussian white noise with standard
// deviation sigma from a fixed seed.
func GaussianNoise(seed uint64, sigma float64, length int) []float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: sigma,
		Src:   randv2.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}
