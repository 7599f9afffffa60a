// Package audio connects a Renderer to an output device. The device owns
// the audio thread and pulls samples at its own cadence.
package audio

import "errors"

// ErrNoDevice means no output device could be opened. It is fatal at
// startup; nothing in this package retries.
var ErrNoDevice = errors.New("no audio output device")

// Renderer fills a mono float32 buffer with samples in [-1,1].
type Renderer interface {
	Render(out []float32)
}

// Device is an output that calls a Renderer from its own thread.
type Device interface {
	// SampleRate is the rate negotiated with the hardware.
	SampleRate() int
	// Start begins pulling from r.
	Start(r Renderer) error
	// Stop returns only once r will not be called again.
	Stop() error
	// Err reports an asynchronous playback failure, if any.
	Err() error
}
