package projector

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/tlittenberg/glass/dsp/wdm"
	"github.com/tlittenberg/glass/internal/testutil"
	"github.com/tlittenberg/glass/logging"
	"github.com/tlittenberg/glass/response"
	"github.com/tlittenberg/glass/waveform"
)

var quiet = &logging.NoOpLogger{}

// newBasis returns a 64x16 basis with ΔT = 16 s, 1 s sampling and a window
// as long as the timeline.
func newBasis(t *testing.T, opts ...wdm.Option) *wdm.Basis {
	t.Helper()
	base := []wdm.Option{
		wdm.WithPixelDuration(16),
		wdm.WithSampleCadence(1),
		wdm.WithOversample(32),
		wdm.WithLogger(quiet),
	}
	b, err := wdm.NewBasis(64*16, append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewBasis: %v", err)
	}
	return b
}

func project(t *testing.T, p *Projector, src waveform.Params, ext response.Extrinsic) *wdm.Sparse {
	t.Helper()
	dst := wdm.NewSparse(p.Channels(), p.Capacity(0))
	if err := p.Project(src, ext, dst); err != nil {
		t.Fatalf("Project: %v", err)
	}
	return dst
}

func dense(t *testing.T, s *wdm.Sparse, c int) []float64 {
	t.Helper()
	d, err := s.Dense(c)
	if err != nil {
		t.Fatalf("Dense: %v", err)
	}
	return d
}

func TestProjectSinusoidEndToEnd(t *testing.T) {
	b := newBasis(t, wdm.WithTaperPixels(0))
	df := b.Bandwidth()

	p, err := New(b, waveform.Monochromatic{}, response.Identity(1),
		WithWindow(b.FullWindow()), WithLogger(quiet))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const amp, phase0 = 1.0, 0.3
	f := 6.25 * df
	dst := project(t, p, waveform.Params{Amplitude: amp, Frequency: f, Phase: phase0}, response.Extrinsic{})

	if dst.Len() == 0 {
		t.Fatal("no active pixels")
	}
	for _, k := range dst.Index {
		_, j, _ := b.Pixel(k)
		if j < 4 || j > 8 {
			t.Fatalf("pixel %d in layer %d, more than two layers from the source", k, j)
		}
	}

	want := amp * amp * b.Duration() / 2
	if got := dst.Power(0); math.Abs(got-want) > 0.05*want {
		t.Fatalf("power %v, want %v within 5%%", got, want)
	}

	// The tone is periodic over the timeline, so the whole-volume transform
	// of the dense signal is the exact reference.
	ref, err := b.Forward(testutil.Sinusoid(amp, f, phase0, b.Cadence(), b.Len()))
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	got := dense(t, dst, 0)
	testutil.RequireFinite(t, got)
	diff, err := testutil.MaxAbsDiff(got, ref)
	if err != nil {
		t.Fatal(err)
	}
	if peak := testutil.MaxAbs(ref); diff > 1e-6*peak {
		t.Fatalf("projection deviates from Forward by %v (peak %v)", diff, peak)
	}
}

func TestProjectSegmentedChirp(t *testing.T) {
	b := newBasis(t)
	df := b.Bandwidth()

	// Sweeps 3ΔF to 9ΔF: each layer is reached for about a quarter of the
	// timeline, so the track is split into segments.
	fdot := 6 * df / b.Duration()
	src := waveform.Params{Amplitude: 1, Frequency: 3 * df, Fdot: fdot}

	p, err := New(b, waveform.Chirp{}, response.Identity(1),
		WithWindow(b.FullWindow()), WithLogger(quiet))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dst := project(t, p, src, response.Extrinsic{})

	if dst.Len() >= 7*b.TimePixels() {
		t.Fatalf("%d active pixels, expected a segmented track", dst.Len())
	}

	ref, err := b.Forward(testutil.Chirp(1, 3*df, fdot, b.Cadence(), b.Len()))
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	got := dense(t, dst, 0)

	var errEnergy, refEnergy float64
	for m := 4; m <= 8; m++ {
		for i := 12; i < 52; i++ {
			k, _ := b.Index(i, m)
			d := got[k] - ref[k]
			errEnergy += d * d
			refEnergy += ref[k] * ref[k]
		}
	}
	if rel := math.Sqrt(errEnergy / refEnergy); rel > 5e-2 {
		t.Fatalf("relative error %v against Forward", rel)
	}
}

func TestTableMatchesHeterodyne(t *testing.T) {
	b := newBasis(t, wdm.WithTableResolution(100, 20, 0.1))
	df := b.Bandwidth()

	tab, err := wdm.BuildTable(context.Background(), b)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}

	resp, err := response.NewStatic(
		response.Pattern{Plus: 0.8, Cross: 0.3},
		response.Pattern{Plus: -0.4, Cross: 0.6, Position: [3]float64{8, 0, -5}},
	)
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	ext := response.Extrinsic{CosTheta: 0.3, Phi: 1.2, Polarization: 0.3, Inclination: 0.7}
	src := waveform.Params{Amplitude: 1, Frequency: 5.1 * df, Fdot: 1.5e-5, Phase: 0.4}

	het, err := New(b, waveform.Chirp{}, resp, WithWindow(b.FullWindow()), WithLogger(quiet))
	if err != nil {
		t.Fatalf("New heterodyne: %v", err)
	}
	lut, err := New(b, waveform.Chirp{}, resp,
		WithStrategy(Table), WithTable(tab), WithWindow(b.FullWindow()), WithLogger(quiet))
	if err != nil {
		t.Fatalf("New table: %v", err)
	}

	a := project(t, het, src, ext)
	c := project(t, lut, src, ext)

	for ch := range resp.Channels() {
		x, y := dense(t, a, ch), dense(t, c, ch)

		peak, worst := 0.0, 0.0
		for m := 4; m <= 7; m++ {
			for i := 16; i < 48; i++ {
				k, _ := b.Index(i, m)
				peak = max(peak, math.Abs(x[k]))
				worst = max(worst, math.Abs(x[k]-y[k]))
			}
		}
		if peak == 0 {
			t.Fatalf("channel %d: heterodyne projection is empty", ch)
		}
		if worst > 2e-2*peak {
			t.Fatalf("channel %d: paths differ by %v against peak %v", ch, worst, peak)
		}
	}
}

func TestProjectSkipsTopLayer(t *testing.T) {
	b := newBasis(t, wdm.WithTableResolution(100, 20, 0.1))
	df := b.Bandwidth()

	tab, err := wdm.BuildTable(context.Background(), b)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	src := waveform.Params{Amplitude: 1, Frequency: 15.4 * df}

	for _, opts := range [][]Option{
		{WithStrategy(Heterodyne)},
		{WithStrategy(Table), WithTable(tab)},
	} {
		opts = append(opts, WithWindow(b.FullWindow()), WithLogger(quiet))
		p, err := New(b, waveform.Monochromatic{}, response.Identity(1), opts...)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if dst := project(t, p, src, response.Extrinsic{}); dst.Len() != 0 {
			t.Fatalf("%s: %d pixels for a tone above the top layer", p.Strategy(), dst.Len())
		}
	}
}

func TestProjectDropsTimesAboveTopLayer(t *testing.T) {
	b := newBasis(t)
	df := b.Bandwidth()

	// Sweeps 13.5ΔF to 15.5ΔF, crossing the top layer at pixel 48.
	src := waveform.Params{Amplitude: 1, Frequency: 13.5 * df, Fdot: 2 * df / b.Duration()}

	p, err := New(b, waveform.Chirp{}, response.Identity(1),
		WithWindow(b.FullWindow()), WithLogger(quiet))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dst := project(t, p, src, response.Extrinsic{})

	early := 0
	for _, k := range dst.Index {
		i, _, _ := b.Pixel(k)
		if i > 48 {
			t.Fatalf("pixel %d at time %d, after the source left the top layer", k, i)
		}
		if i < 40 {
			early++
		}
	}
	if early == 0 {
		t.Fatal("no pixels before the crossing")
	}
	testutil.RequireFinite(t, dst.Values[0])
}

func TestProjectConcurrent(t *testing.T) {
	b := newBasis(t)
	df := b.Bandwidth()

	p, err := New(b, waveform.Chirp{}, response.Identity(2), WithLogger(quiet))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	src := waveform.Params{Amplitude: 2, Frequency: 4.3 * df, Fdot: 1e-5}
	want := project(t, p, src, response.Extrinsic{})

	const workers = 8
	results := make([]*wdm.Sparse, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[w] = wdm.NewSparse(p.Channels(), 0)
			errs[w] = p.Project(src, response.Extrinsic{}, results[w])
		}()
	}
	wg.Wait()

	for w := range workers {
		if errs[w] != nil {
			t.Fatalf("worker %d: %v", w, errs[w])
		}
		got := results[w]
		if got.Len() != want.Len() {
			t.Fatalf("worker %d: %d pixels, want %d", w, got.Len(), want.Len())
		}
		for c := range want.Channels() {
			for n := range want.Index {
				if got.Index[n] != want.Index[n] || got.Values[c][n] != want.Values[c][n] {
					t.Fatalf("worker %d: entry %d differs", w, n)
				}
			}
		}
	}
}

// brokenResponse reports more channels than it produces.
type brokenResponse struct{}

func (brokenResponse) Channels() int { return 2 }

func (brokenResponse) Project(ext response.Extrinsic, times []float64, amp, phase response.Interpolant, out *response.Channels) error {
	return response.Identity(1).Project(ext, times, amp, phase, out)
}

func TestProjectErrors(t *testing.T) {
	b := newBasis(t)
	df := b.Bandwidth()
	good := waveform.Params{Amplitude: 1, Frequency: 5 * df}

	if _, err := New(b, waveform.Chirp{}, response.Identity(1), WithStrategy(Table)); !errors.Is(err, ErrNoTable) {
		t.Fatalf("err=%v, want ErrNoTable", err)
	}
	if _, err := New(b, waveform.Chirp{}, response.Identity(1), WithCoarseSize(2)); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("err=%v, want ErrInvalidOption", err)
	}
	if _, err := New(b, waveform.Chirp{}, response.Identity(1), WithWindow(wdm.Window{Min: 0, Max: b.Len() + 1})); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("err=%v, want ErrInvalidOption", err)
	}

	p, err := New(b, waveform.Chirp{}, brokenResponse{}, WithLogger(quiet))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Project(good, response.Extrinsic{}, wdm.NewSparse(2, 0)); !errors.Is(err, ErrChannelMismatch) {
		t.Fatalf("err=%v, want ErrChannelMismatch", err)
	}

	p, err = New(b, waveform.Chirp{}, response.Identity(1), WithLogger(quiet))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bad := waveform.Params{Amplitude: 1, Frequency: -1}
	if err := p.Project(bad, response.Extrinsic{}, wdm.NewSparse(1, 0)); !errors.Is(err, waveform.ErrInvalidParams) {
		t.Fatalf("err=%v, want ErrInvalidParams", err)
	}
}

func TestSanitizeZeroesNonFinite(t *testing.T) {
	b := newBasis(t)
	var out, errOut bytes.Buffer

	p, err := New(b, waveform.Chirp{}, response.Identity(1), WithLogger(logging.NewWriterLogger(&out, &errOut)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dst := &wdm.Sparse{
		Index:  []int{0, 1, 2, 3},
		Values: [][]float64{{1, math.NaN(), math.Inf(-1), 2}},
	}
	p.sanitize(dst)

	testutil.RequireFinite(t, dst.Values[0])
	testutil.RequireSliceNearlyEqual(t, dst.Values[0], []float64{1, 0, 0, 2}, 0)
	if !strings.Contains(errOut.String(), "non-finite coefficients") || !strings.Contains(errOut.String(), "count=2") {
		t.Fatalf("missing warning, got %q", errOut.String())
	}
}

func TestStrategyString(t *testing.T) {
	if Heterodyne.String() != "heterodyne" || Table.String() != "table" || Strategy(9).String() != "unknown" {
		t.Fatal("unexpected strategy names")
	}
}
