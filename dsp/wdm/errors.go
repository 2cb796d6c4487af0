package wdm

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDuration is returned for non-positive or non-finite durations.
	ErrInvalidDuration = errors.New("wdm: duration must be positive and finite")
	// ErrTooShort is returned when the duration holds fewer than two pixels.
	ErrTooShort = errors.New("wdm: duration shorter than two time pixels")
	// ErrInvalidCadence is returned when the pixel duration is not an even
	// whole multiple of the sample cadence.
	ErrInvalidCadence = errors.New("wdm: pixel duration must be an even integer multiple of the sample cadence")
	// ErrInvalidOversample is returned for a window oversampling factor below
	// one or a non-positive filter order.
	ErrInvalidOversample = errors.New("wdm: oversample must be >= 1 and filter order > 0")
	// ErrLengthMismatch is returned when a buffer does not match the basis.
	ErrLengthMismatch = errors.New("wdm: buffer length does not match basis")
	// ErrLayerRange is returned for layer runs outside [1, NF).
	ErrLayerRange = errors.New("wdm: layer range out of bounds")
	// ErrSegmentRange is returned for segments outside the timeline or of
	// odd length.
	ErrSegmentRange = errors.New("wdm: segment out of bounds")
)

func validateDuration(duration float64) error {
	if !(duration > 0) || math.IsInf(duration, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, duration)
	}
	return nil
}

func validateLength(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s has %d samples, want %d", ErrLengthMismatch, name, got, want)
	}
	return nil
}
