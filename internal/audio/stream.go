package audio

import (
	"encoding/binary"
	"math"
	"sync"
)

const bytesPerSample = 4 // mono float32 little-endian

// Stream adapts a Renderer to the io.Reader a device player consumes.
type Stream struct {
	mu     sync.Mutex // held for a whole Read; Halt waits on it
	r      Renderer
	buf    []float32
	halted bool
}

func NewStream(r Renderer, frames int) *Stream {
	if frames < 1 {
		frames = 1
	}
	return &Stream{r: r, buf: make([]float32, frames)}
}

// Read implements io.Reader. Only whole samples are written.
func (s *Stream) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerSample
	n := frames * bytesPerSample

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.halted {
		clear(p[:n])
		return n, nil
	}
	if len(s.buf) < frames {
		// only when the device asks for more than it announced
		s.buf = make([]float32, frames)
	}
	samples := s.buf[:frames]
	s.r.Render(samples)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(v))
	}
	return n, nil
}

// Halt makes every later Read return silence. When it returns, no Read is
// inside the Renderer and none will enter it again.
func (s *Stream) Halt() {
	s.mu.Lock()
	s.halted = true
	s.mu.Unlock()
}

func (s *Stream) Halted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.halted
}

// framesFor is the buffer length in samples for d seconds at sampleRate.
func framesFor(sampleRate int, seconds float64) int {
	return int(math.Ceil(float64(sampleRate) * seconds))
}
