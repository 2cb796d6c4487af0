// Package wdm implements the Wilson-Daubechies-Meyer (WDM) time-frequency
// basis: a critically sampled, orthonormal tiling of an observation into NT
// time pixels of duration ΔT and NF frequency layers of bandwidth
// ΔF = 1/(2ΔT).
//
// # Index convention
//
// Pixel (i, j), time i in [0,NT) and layer j in [0,NF), lives at flat index
// k = i + j*NT. See [Basis.Index] and [Basis.Pixel].
//
// # Parity
//
// Every pixel stores one real number. When i+j is even the pixel holds the
// real ("cosine") part of the layer's complex response, when odd it holds
// the negated imaginary ("sine") part. The rule is implemented once by
// [Parity] and shared by the transforms, the lookup table and the
// projector.
//
// Layer 0 is special: the DC and Nyquist bands have half the usual
// bandwidth, so they share layer 0. Even time pixels hold the DC band and
// odd time pixels hold the Nyquist band.
//
// # Normalization
//
// Coefficients are continuous-time projections onto unit-norm basis
// functions, so for input sampled at cadence Δt
//
//	sum(pixels^2) == Δt * sum(data^2)
//
// and a sinusoid of amplitude A lasting T seconds carries total power A²T/2.
//
// # Transforms
//
//   - [Basis.Forward] / [Basis.Inverse]: whole-volume transforms over all
//     NT*NF pixels.
//   - [Basis.TransformLayers] / [Basis.TransformSegment]: narrow-band
//     transforms of a heterodyned, downsampled signal that only populate a
//     few layers.
//   - [Table]: precomputed layer response for the fast projection path.
//
// A Basis and a Table are immutable once built and safe for concurrent use.
package wdm
