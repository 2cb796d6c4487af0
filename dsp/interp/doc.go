// Package interp provides the interpolation primitives used by the wavelet
// projector.
//
//   - [Spline]:   piecewise cubic spline (not-a-knot or natural ends) with
//     first and second derivatives, used to carry coarse-grid amplitude and
//     phase onto fine time grids
//   - [Bilinear]: cell interpolation over a rectangular grid, used by the
//     wavelet lookup table
//   - [Cell]:     locate a point on a uniform grid
//
// Splines are built on gonum's interp package.
package interp
