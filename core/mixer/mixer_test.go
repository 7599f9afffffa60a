package mixer

import (
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ingyamilmolinar/tonefield/core/registry"
	"github.com/ingyamilmolinar/tonefield/core/voice"
	synth_log "github.com/ingyamilmolinar/tonefield/internal/log"
)

const sampleRate = 44100

var testLogger = synth_log.New(io.Discard, synth_log.LevelError)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestEmptyRegistryIsSilent(t *testing.T) {
	reg := registry.New(testLogger)
	m := New(reg, sampleRate)
	out := []float32{9, 9, 9, 9}
	m.Render(out)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestClearThenRenderIsExactlyZero(t *testing.T) {
	reg := registry.New(testLogger)
	m := New(reg, sampleRate)
	reg.Add(voice.NewSine(440, 1))
	reg.Add(voice.NewSine(660, 1))
	out := make([]float32, 64)
	m.Render(out)

	reg.Clear()
	one := []float32{123}
	m.Render(one)
	if one[0] != 0 {
		t.Fatalf("sample after clear = %v, want exactly 0", one[0])
	}
	if d := m.TakeDiagnostics(); d.Faults != 0 {
		t.Fatalf("faults after clear: %+v", d)
	}
}

func TestSingleVoiceFirstTwoSamples(t *testing.T) {
	reg := registry.New(testLogger)
	m := New(reg, sampleRate)
	reg.Add(voice.NewSine(440, 0.5))

	out := make([]float32, 2)
	m.Render(out)
	if out[0] != 0 {
		t.Fatalf("first sample = %v, want sin(0)*0.5 = 0", out[0])
	}
	want := math.Sin(2*math.Pi*440/sampleRate) * 0.5
	if !near(float64(out[1]), want) {
		t.Fatalf("second sample = %v, want %v", out[1], want)
	}
}

func TestTwoVoicesAtZeroPhaseSumToZero(t *testing.T) {
	reg := registry.New(testLogger)
	m := New(reg, sampleRate)
	reg.Add(voice.NewSine(300, 1))
	reg.Add(voice.NewSine(500, 1))
	out := make([]float32, 1)
	m.Render(out)
	if out[0] != 0 {
		t.Fatalf("sample = %v, want 0", out[0])
	}
}

func TestTwoVoicesAtPeakNormalizeToOne(t *testing.T) {
	reg := registry.New(testLogger)
	m := New(reg, sampleRate)
	reg.Add(voice.NewSine(300, 1))
	reg.Add(voice.NewSine(500, 1))
	reg.Render(func(_ voice.ID, _ voice.Parameters, st *voice.OscillatorState) {
		st.Phase = math.Pi / 2
	})

	out := make([]float32, 1)
	m.Render(out)
	if !near(float64(out[0]), 1) {
		t.Fatalf("sample = %v, want 1.0", out[0])
	}
	if out[0] > 1 {
		t.Fatalf("normalized sample %v exceeds 1", out[0])
	}
	d := m.TakeDiagnostics()
	if d.Clips != 1 || !near(d.Peak, 2) {
		t.Fatalf("diagnostics = %+v, want one clip with peak 2", d)
	}
	if d2 := m.TakeDiagnostics(); d2.Clips != 0 || d2.Peak != 0 {
		t.Fatalf("diagnostics not reset: %+v", d2)
	}
}

func TestRenderAdvancesEveryVoice(t *testing.T) {
	reg := registry.New(testLogger)
	m := New(reg, sampleRate)
	reg.Add(voice.NewSine(441, 0.3))
	reg.Add(voice.NewSine(882, 0.3))

	m.Render(make([]float32, 100))
	reg.Render(func(_ voice.ID, p voice.Parameters, st *voice.OscillatorState) {
		want := math.Mod(100*2*math.Pi*float64(p.Sine.Frequency)/sampleRate, 2*math.Pi)
		d := math.Abs(st.Phase - want)
		if d > 1e-6 && math.Abs(d-2*math.Pi) > 1e-6 {
			t.Fatalf("%v: phase %v, want %v", p, st.Phase, want)
		}
	})
	if m.Rendered() != 100 {
		t.Fatalf("Rendered = %d", m.Rendered())
	}
}

func TestOutputStaysInRange(t *testing.T) {
	reg := registry.New(testLogger)
	m := New(reg, sampleRate)
	for _, f := range []float32{130.81, 164.81, 196, 261.63, 329.63, 392, 523.25} {
		reg.Add(voice.NewSine(f, 1))
	}
	out := make([]float32, sampleRate/10)
	m.Render(out)
	for i, v := range out {
		if v > 1 || v < -1 {
			t.Fatalf("sample %d = %v out of [-1,1]", i, v)
		}
	}
}

func TestZeroSampleRateIsSilent(t *testing.T) {
	reg := registry.New(testLogger)
	m := New(reg, 0)
	reg.Add(voice.NewSine(440, 1))
	reg.Render(func(_ voice.ID, _ voice.Parameters, st *voice.OscillatorState) { st.Phase = 1 })
	out := []float32{5, 5}
	m.Render(out)
	if out[0] != 0 || out[1] != 0 {
		t.Fatalf("zero sample rate rendered %v", out)
	}
}

func TestNonFiniteSumDegradesToSilence(t *testing.T) {
	reg := registry.New(testLogger)
	m := New(reg, sampleRate)
	reg.Add(voice.NewSine(440, 1))
	reg.Render(func(_ voice.ID, _ voice.Parameters, st *voice.OscillatorState) { st.Phase = math.Inf(1) })
	out := []float32{7}
	m.Render(out)
	if out[0] != 0 {
		t.Fatalf("non-finite sample rendered as %v", out[0])
	}
	if d := m.TakeDiagnostics(); d.Faults != 1 {
		t.Fatalf("faults = %d, want 1", d.Faults)
	}
}

func TestRenderWhileControlPlaneMutates(t *testing.T) {
	reg := registry.New(testLogger)
	m := New(reg, sampleRate)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		var id voice.ID
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			switch i % 5 {
			case 0:
				id = reg.Add(voice.NewSine(220, 0.8))
			case 4:
				reg.Clear()
			default:
				reg.Update(id, voice.NewSine(float32(220+i%100), 0.8))
			}
		}
	}()

	buf := make([]float32, 512)
	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		m.Render(buf)
		for i, v := range buf {
			if v > 1 || v < -1 || math.IsNaN(float64(v)) {
				t.Fatalf("sample %d = %v", i, v)
			}
		}
	}
	close(stop)
	wg.Wait()
	if d := m.TakeDiagnostics(); d.Faults != 0 {
		t.Fatalf("faults during concurrent render: %+v", d)
	}
}

func BenchmarkRenderEightVoices(b *testing.B) {
	reg := registry.New(testLogger)
	for i := 0; i < 8; i++ {
		reg.Add(voice.NewSine(float32(110*(i+1)), 0.5))
	}
	m := New(reg, sampleRate)
	buf := make([]float32, 512)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Render(buf)
	}
}
