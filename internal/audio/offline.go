package audio

import (
	"fmt"
	"io"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth  = 16
	wavPCMFormat = 1
	wavChunk     = 1024
)

// Offline is a Device without hardware: samples are produced only when the
// caller pulls them through Render. Tests and the WAV exporter use it.
type Offline struct {
	sampleRate int

	mu      sync.Mutex
	r       Renderer
	stopped bool
}

func NewOffline(sampleRate int) *Offline {
	return &Offline{sampleRate: sampleRate}
}

func (o *Offline) SampleRate() int { return o.sampleRate }

func (o *Offline) Start(r Renderer) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.r = r
	o.stopped = false
	return nil
}

func (o *Offline) Stop() error {
	o.mu.Lock()
	o.stopped = true
	o.r = nil
	o.mu.Unlock()
	return nil
}

func (o *Offline) Err() error { return nil }

// Render pulls len(out) samples from the started Renderer, or silence when
// not started.
func (o *Offline) Render(out []float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.r == nil || o.stopped {
		clear(out)
		return
	}
	o.r.Render(out)
}

// WriteWAV renders frames samples from r and encodes them as 16-bit mono
// PCM into w.
func WriteWAV(w io.WriteSeeker, r Renderer, sampleRate, frames int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("write wav: sample rate %d", sampleRate)
	}
	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, 1, wavPCMFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: wavBitDepth,
	}
	chunk := make([]float32, wavChunk)
	for left := frames; left > 0; {
		n := min(left, wavChunk)
		r.Render(chunk[:n])
		buf.Data = buf.Data[:0]
		for _, v := range chunk[:n] {
			buf.Data = append(buf.Data, toPCM16(v))
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("write wav: %w", err)
		}
		left -= n
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write wav: close: %w", err)
	}
	return nil
}

func toPCM16(v float32) int {
	switch {
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	case v != v: // NaN
		v = 0
	}
	return int(v * (1<<15 - 1))
}
