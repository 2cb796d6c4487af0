// Package response maps a source's barycentric amplitude and phase to the
// slowly varying amplitude and phase seen by each detector channel.
package response

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoChannels is returned when a response is built without channels.
	ErrNoChannels = errors.New("response: at least one channel is required")
	// ErrInvalidExtrinsic is returned for non-finite extrinsic parameters or
	// a sky position off the unit sphere.
	ErrInvalidExtrinsic = errors.New("response: invalid extrinsic parameters")
)

// Interpolant is a function of time known between samples. *interp.Spline
// satisfies it.
type Interpolant interface {
	At(t float64) float64
}

// Extrinsic holds the sky position and orientation of a source relative to
// the detector. The zero value is a face-on source on the x axis.
type Extrinsic struct {
	CosTheta     float64 // cosine of the colatitude θ, in [-1, 1]
	Phi          float64 // longitude φ, rad
	Polarization float64 // ψ, rad
	Inclination  float64 // ι, rad
}

// Direction returns the unit vector from the origin towards the source,
// (sin θ cos φ, sin θ sin φ, cos θ).
func (e Extrinsic) Direction() [3]float64 {
	sth := math.Sqrt(max(0, 1-e.CosTheta*e.CosTheta))
	sph, cph := math.Sincos(e.Phi)
	return [3]float64{sth * cph, sth * sph, e.CosTheta}
}

func (e Extrinsic) validate() error {
	for _, v := range []float64{e.CosTheta, e.Phi, e.Polarization, e.Inclination} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %+v", ErrInvalidExtrinsic, e)
		}
	}
	if math.Abs(e.CosTheta) > 1 {
		return fmt.Errorf("%w: cos θ = %v outside [-1, 1]", ErrInvalidExtrinsic, e.CosTheta)
	}
	return nil
}

// Channels holds per-channel amplitude and phase at the requested times:
// channel c sees Amplitude[c][n] * cos(Phase[c][n]).
type Channels struct {
	Amplitude [][]float64
	Phase     [][]float64
}

// Resize shapes the buffers to channels x n, reusing storage.
func (c *Channels) Resize(channels, n int) {
	c.Amplitude = resize2(c.Amplitude, channels, n)
	c.Phase = resize2(c.Phase, channels, n)
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

// Response projects a barycentric signal onto detector channels.
type Response interface {
	Channels() int
	Project(ext Extrinsic, times []float64, amp, phase Interpolant, out *Channels) error
}

type identity struct {
	channels int
}

// Identity returns a response that copies the barycentric signal to every
// channel unchanged.
func Identity(channels int) Response {
	return identity{channels: max(channels, 1)}
}

func (r identity) Channels() int { return r.channels }

func (r identity) Project(_ Extrinsic, times []float64, amp, phase Interpolant, out *Channels) error {
	out.Resize(r.channels, len(times))
	for n, t := range times {
		a, p := amp.At(t), phase.At(t)
		for c := range r.channels {
			out.Amplitude[c][n] = a
			out.Phase[c][n] = p
		}
	}
	return nil
}
