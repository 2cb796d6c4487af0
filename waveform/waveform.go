// Package waveform defines how the projector obtains a source's slowly
// varying amplitude and phase, and keeps a registry of waveform families.
//
// A Family turns physical parameters into amplitude, phase and frequency
// samples at requested times. Two reference families are registered:
// "monochromatic" and "chirp".
package waveform

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/samber/lo"
)

var (
	// ErrUnknownFamily is returned by Lookup for unregistered names.
	ErrUnknownFamily = errors.New("waveform: unknown family")
	// ErrDuplicateFamily is returned when a name is registered twice.
	ErrDuplicateFamily = errors.New("waveform: family already registered")
	// ErrInvalidParams is returned for non-physical parameters.
	ErrInvalidParams = errors.New("waveform: invalid parameters")
)

// Params are the intrinsic parameters of a source, referenced to RefTime
// seconds after the start of the observation.
type Params struct {
	Amplitude float64
	Frequency float64 // Hz at RefTime
	Fdot      float64 // Hz/s
	Fddot     float64 // Hz/s²
	Phase     float64 // rad at RefTime
	RefTime   float64
}

// Validate checks that the parameters describe a finite, positive-frequency
// signal.
func (p Params) Validate() error {
	vals := []float64{p.Amplitude, p.Frequency, p.Fdot, p.Fddot, p.Phase, p.RefTime}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value in %+v", ErrInvalidParams, p)
		}
	}
	if p.Amplitude < 0 || p.Frequency <= 0 {
		return fmt.Errorf("%w: amplitude %v, frequency %v", ErrInvalidParams, p.Amplitude, p.Frequency)
	}
	return nil
}

// Samples holds a waveform evaluated at a set of times: h(t) =
// Amplitude(t) * cos(Phase(t)), with Frequency the phase rate over 2π.
type Samples struct {
	Amplitude []float64
	Phase     []float64
	Frequency []float64
}

// Resize sets all slices to length n, reusing storage.
func (s *Samples) Resize(n int) {
	s.Amplitude = resize(s.Amplitude, n)
	s.Phase = resize(s.Phase, n)
	s.Frequency = resize(s.Frequency, n)
}

func resize(x []float64, n int) []float64 {
	if cap(x) < n {
		return make([]float64, n)
	}
	return x[:n]
}

// Family generates the barycentric waveform of one kind of source.
//
// Generate is evaluated on a time grid only, which need not be uniform. A
// family whose model is native to the frequency domain must map its
// amplitude and phase to the requested times, e.g. through its
// time-frequency relation t(f), before writing out.
type Family interface {
	Name() string
	Generate(p Params, times []float64, out *Samples) error
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Family{}
)

// Register adds a family under its name.
func Register(f Family) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := f.Name()
	if _, ok := registry[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateFamily, name)
	}
	registry[name] = f
	return nil
}

// Lookup returns the family registered under name.
func Lookup(name string) (Family, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
	return f, nil
}

// Names returns the registered family names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := lo.Keys(registry)
	slices.Sort(names)
	return names
}

func init() {
	for _, f := range []Family{Monochromatic{}, Chirp{}} {
		if err := Register(f); err != nil {
			panic(err)
		}
	}
}
