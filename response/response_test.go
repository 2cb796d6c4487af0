package response

import (
	"errors"
	"math"
	"testing"
)

type fn func(float64) float64

func (f fn) At(t float64) float64 { return f(t) }

var (
	constAmp = fn(func(float64) float64 { return 3 })
	linPhase = fn(func(t float64) float64 { return 0.2 * t })
)

func TestIdentity(t *testing.T) {
	r := Identity(2)
	if r.Channels() != 2 {
		t.Fatalf("Channels()=%d", r.Channels())
	}

	times := []float64{0, 1, 2}
	var out Channels
	if err := r.Project(Extrinsic{}, times, constAmp, linPhase, &out); err != nil {
		t.Fatalf("Project: %v", err)
	}
	for c := range 2 {
		for n, tm := range times {
			if out.Amplitude[c][n] != 3 || out.Phase[c][n] != 0.2*tm {
				t.Fatalf("channel %d sample %d: (%v, %v)", c, n, out.Amplitude[c][n], out.Phase[c][n])
			}
		}
	}

	if Identity(0).Channels() != 1 {
		t.Fatal("Identity(0) should have one channel")
	}
}

func TestStaticMatchesStrain(t *testing.T) {
	s, err := NewStatic(
		Pattern{Plus: 0.7, Cross: -0.3},
		Pattern{Plus: -0.2, Cross: 0.9, Delay: 2, Position: [3]float64{3, -1, 4}},
	)
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	ext := Extrinsic{CosTheta: 0.6, Phi: 2.1, Polarization: 0.4, Inclination: 1.1}
	sth := 0.8
	nhat := [3]float64{sth * math.Cos(ext.Phi), sth * math.Sin(ext.Phi), ext.CosTheta}

	times := []float64{0, 3.5, 7, 11.25}
	var out Channels
	if err := s.Project(ext, times, constAmp, linPhase, &out); err != nil {
		t.Fatalf("Project: %v", err)
	}

	sin2, cos2 := math.Sincos(2 * ext.Polarization)
	ci := math.Cos(ext.Inclination)
	for c, p := range s.patterns {
		fp := p.Plus*cos2 + p.Cross*sin2
		fc := -p.Plus*sin2 + p.Cross*cos2
		for n, tm := range times {
			tp := tm - p.Delay + nhat[0]*p.Position[0] + nhat[1]*p.Position[1] + nhat[2]*p.Position[2]
			phi := linPhase(tp)
			want := constAmp(tp) * (fp*(1+ci*ci)/2*math.Cos(phi) + fc*ci*math.Sin(phi))
			got := out.Amplitude[c][n] * math.Cos(out.Phase[c][n])
			if math.Abs(got-want) > 1e-12 {
				t.Fatalf("channel %d t=%v: %v, want %v", c, tm, got, want)
			}
		}
	}
}

func TestStaticFaceOnPlus(t *testing.T) {
	s, err := NewStatic(Pattern{Plus: 1})
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	gain, lag := s.Gain(0, Extrinsic{})
	if math.Abs(gain-1) > 1e-15 || lag != 0 {
		t.Fatalf("Gain=(%v,%v), want (1,0)", gain, lag)
	}

	s, _ = NewStatic(Pattern{Cross: 1})
	gain, lag = s.Gain(0, Extrinsic{})
	if math.Abs(gain-1) > 1e-15 || math.Abs(lag-math.Pi/2) > 1e-15 {
		t.Fatalf("Gain=(%v,%v), want (1,π/2)", gain, lag)
	}
}

func TestStaticSkyPositionShiftsPhase(t *testing.T) {
	s, err := NewStatic(Pattern{Plus: 1, Position: [3]float64{100, 0, 0}})
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	times := []float64{0, 10, 20}

	// On the x axis the wave reaches the channel 100 s early; at the pole
	// it arrives with the origin.
	xaxis := Extrinsic{CosTheta: 0, Phi: 0}
	pole := Extrinsic{CosTheta: 1, Phi: 0}
	if d := s.Delay(0, xaxis); math.Abs(d+100) > 1e-12 {
		t.Fatalf("Delay on x axis = %v, want -100", d)
	}
	if d := s.Delay(0, pole); math.Abs(d) > 1e-12 {
		t.Fatalf("Delay at pole = %v, want 0", d)
	}

	var a, b Channels
	if err := s.Project(xaxis, times, constAmp, linPhase, &a); err != nil {
		t.Fatalf("Project: %v", err)
	}
	if err := s.Project(pole, times, constAmp, linPhase, &b); err != nil {
		t.Fatalf("Project: %v", err)
	}
	for n := range times {
		if d := a.Phase[0][n] - b.Phase[0][n]; math.Abs(d-0.2*100) > 1e-9 {
			t.Fatalf("sample %d: phase shift %v, want 20", n, d)
		}
		if a.Amplitude[0][n] != b.Amplitude[0][n] {
			t.Fatalf("sample %d: amplitude changed with sky position", n)
		}
	}

	// Opposite longitude flips the delay.
	back := Extrinsic{CosTheta: 0, Phi: math.Pi}
	if d := s.Delay(0, back); math.Abs(d-100) > 1e-9 {
		t.Fatalf("Delay at φ=π = %v, want 100", d)
	}
}

func TestStaticErrors(t *testing.T) {
	if _, err := NewStatic(); !errors.Is(err, ErrNoChannels) {
		t.Fatalf("err=%v, want ErrNoChannels", err)
	}
	if _, err := NewStatic(Pattern{Plus: math.NaN()}); err == nil {
		t.Fatal("NaN pattern accepted")
	}

	s, _ := NewStatic(Pattern{Plus: 1})
	var out Channels
	err := s.Project(Extrinsic{Inclination: math.Inf(1)}, []float64{0}, constAmp, linPhase, &out)
	if !errors.Is(err, ErrInvalidExtrinsic) {
		t.Fatalf("err=%v, want ErrInvalidExtrinsic", err)
	}

	for _, ext := range []Extrinsic{
		{CosTheta: 1.5},
		{CosTheta: -1.0001},
		{Phi: math.NaN()},
	} {
		if err := s.Project(ext, []float64{0}, constAmp, linPhase, &out); !errors.Is(err, ErrInvalidExtrinsic) {
			t.Fatalf("%+v: err=%v, want ErrInvalidExtrinsic", ext, err)
		}
	}
	if _, err := NewStatic(Pattern{Plus: 1, Position: [3]float64{0, math.Inf(1), 0}}); err == nil {
		t.Fatal("infinite position accepted")
	}
}
