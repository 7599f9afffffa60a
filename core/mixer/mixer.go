// Package mixer renders the registry into an output buffer. Render runs on
// the audio device's thread: it never logs, allocates or blocks on anything
// but the registry lock.
package mixer

import (
	"math"
	"sync/atomic"

	"github.com/ingyamilmolinar/tonefield/core/registry"
	"github.com/ingyamilmolinar/tonefield/core/voice"
)

// Diagnostics accumulate on the audio thread and are collected by the
// control plane.
type Diagnostics struct {
	Clips  uint64  // samples whose pre-normalization sum exceeded 1
	Peak   float64 // largest pre-normalization magnitude seen
	Faults uint64  // samples replaced by silence after a panic or non-finite value
}

type Mixer struct {
	reg        *registry.Registry
	sampleRate float64

	// touched only by the rendering goroutine
	acc   float64
	visit registry.Visitor

	rendered atomic.Uint64
	clips    atomic.Uint64
	faults   atomic.Uint64
	peakBits atomic.Uint64
}

func New(reg *registry.Registry, sampleRate int) *Mixer {
	m := &Mixer{reg: reg, sampleRate: float64(sampleRate)}
	m.visit = m.accumulate
	return m
}

func (m *Mixer) SampleRate() int { return int(m.sampleRate) }

func (m *Mixer) accumulate(_ voice.ID, p voice.Parameters, st *voice.OscillatorState) {
	m.acc += voice.Step(p, st, m.sampleRate)
}

// Render fills out with one mixed sample per slot.
func (m *Mixer) Render(out []float32) {
	for i := range out {
		out[i] = m.renderSample()
	}
	m.rendered.Add(uint64(len(out)))
}

func (m *Mixer) renderSample() (s float32) {
	defer func() {
		if r := recover(); r != nil {
			m.faults.Add(1)
			s = 0
		}
	}()
	if !(m.sampleRate > 0) {
		return 0
	}
	m.acc = 0
	n := m.reg.Render(m.visit)
	if n == 0 {
		return 0
	}
	if mag := math.Abs(m.acc); mag > 1 {
		m.clips.Add(1)
		m.notePeak(mag)
	}
	v := m.acc / float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		m.faults.Add(1)
		return 0
	}
	return float32(v)
}

func (m *Mixer) notePeak(mag float64) {
	for {
		old := m.peakBits.Load()
		if mag <= math.Float64frombits(old) {
			return
		}
		if m.peakBits.CompareAndSwap(old, math.Float64bits(mag)) {
			return
		}
	}
}

// TakeDiagnostics returns the counters gathered since the previous call and
// resets them.
func (m *Mixer) TakeDiagnostics() Diagnostics {
	return Diagnostics{
		Clips:  m.clips.Swap(0),
		Peak:   math.Float64frombits(m.peakBits.Swap(0)),
		Faults: m.faults.Swap(0),
	}
}

// Rendered is the total number of samples produced so far.
func (m *Mixer) Rendered() uint64 { return m.rendered.Load() }
