package voice

import (
	"math"
	"testing"
)

func TestSampleBoundedByVolume(t *testing.T) {
	for _, vol := range []float32{0, 0.25, 0.5, 1} {
		p := NewSine(440, vol)
		for i := 0; i < 4096; i++ {
			phase := float64(i) / 4096 * twopi
			if got := math.Abs(Sample(p, phase)); got > float64(vol)+1e-12 {
				t.Fatalf("vol=%v phase=%v: |sample|=%v", vol, phase, got)
			}
		}
	}
}

func TestSampleAtQuarterCycle(t *testing.T) {
	if got := Sample(NewSine(440, 0.5), math.Pi/2); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("sample at π/2 = %v, want 0.5", got)
	}
	if got := Sample(NewSine(440, 0.5), 0); got != 0 {
		t.Fatalf("sample at 0 = %v, want 0", got)
	}
}

func TestAdvancePeriodicity(t *testing.T) {
	cases := []struct{ freq, sr float64 }{
		{440, 44100},
		{130.8262, 48000},
		{523.2511, 44100},
		{1000, 8000},
		{22050, 44100},
		{44100, 44100},
	}
	for _, tc := range cases {
		p := NewSine(float32(tc.freq), 1)
		f := float64(p.Sine.Frequency)
		step := twopi * f / tc.sr
		n := int(math.Round(tc.sr / f))
		phase := 0.0
		for i := 0; i < n; i++ {
			phase = Advance(p, phase, tc.sr)
			if phase < 0 || phase >= twopi {
				t.Fatalf("f=%v sr=%v: phase %v escaped [0,2π)", tc.freq, tc.sr, phase)
			}
		}
		// distance on the circle back to the start
		d := math.Min(phase, twopi-phase)
		if d > step+1e-9 {
			t.Fatalf("f=%v sr=%v: after %d steps phase=%v, more than one step (%v) from start", tc.freq, tc.sr, n, phase, step)
		}
	}
}

func TestAdvanceFoldsAboveSampleRate(t *testing.T) {
	p := NewSine(3*8000+1000, 1)
	phase := Advance(p, 0, 8000)
	want := math.Mod(twopi*25000/8000, twopi)
	if phase < 0 || phase >= twopi {
		t.Fatalf("phase %v out of range", phase)
	}
	if math.Abs(phase-want) > 1e-9 {
		t.Fatalf("phase = %v, want %v", phase, want)
	}
}

func TestAdvanceGuards(t *testing.T) {
	p := NewSine(440, 1)
	if got := Advance(p, 1.5, 0); got != 1.5 {
		t.Fatalf("zero sample rate moved phase to %v", got)
	}
	if got := Advance(p, 1.5, -44100); got != 1.5 {
		t.Fatalf("negative sample rate moved phase to %v", got)
	}
	if got := Advance(p, 1.5, math.NaN()); got != 1.5 {
		t.Fatalf("NaN sample rate moved phase to %v", got)
	}
	if got := Advance(NewSine(-10, 1), 1.5, 44100); got != 1.5 {
		t.Fatalf("negative frequency moved phase to %v", got)
	}
	if got := Advance(Parameters{}, 1.5, 44100); got != 1.5 {
		t.Fatalf("unknown kind moved phase to %v", got)
	}
	if got := Advance(NewSine(0, 1), 1.5, 44100); got != 1.5 {
		t.Fatalf("zero frequency moved phase to %v", got)
	}
}

func TestStepSamplesBeforeAdvancing(t *testing.T) {
	p := NewSine(440, 0.5)
	st := &OscillatorState{}
	if v := Step(p, st, 44100); v != 0 {
		t.Fatalf("first step = %v, want 0", v)
	}
	wantPhase := twopi * float64(float32(440)) / 44100
	if math.Abs(st.Phase-wantPhase) > 1e-12 {
		t.Fatalf("phase after step = %v, want %v", st.Phase, wantPhase)
	}
	want := math.Sin(wantPhase) * 0.5
	if v := Step(p, st, 44100); math.Abs(v-want) > 1e-12 {
		t.Fatalf("second step = %v, want %v", v, want)
	}
}

func BenchmarkStep(b *testing.B) {
	p := NewSine(440, 0.5)
	st := &OscillatorState{}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Step(p, st, 44100)
	}
}
