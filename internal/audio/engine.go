//go:build !headless

package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoDevice plays a Renderer through the system's default output using
// oto. Only one may exist per process.
type OtoDevice struct {
	ctx        *oto.Context
	sampleRate int
	buffer     time.Duration

	mu     sync.Mutex // guards the fields below; never taken by Read
	stream *Stream
	player *oto.Player
}

// NewOtoDevice opens the default output at sampleRate, mono float32, with
// roughly buffer worth of device-side latency. Failures wrap ErrNoDevice.
func NewOtoDevice(sampleRate int, buffer time.Duration) (*OtoDevice, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrNoDevice, sampleRate)
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   buffer,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	<-ready
	return &OtoDevice{ctx: ctx, sampleRate: sampleRate, buffer: buffer}, nil
}

func (d *OtoDevice) SampleRate() int { return d.sampleRate }

func (d *OtoDevice) Start(r Renderer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.player != nil {
		return errors.New("audio: device already started")
	}
	d.stream = NewStream(r, framesFor(d.sampleRate, d.buffer.Seconds()))
	p := d.ctx.NewPlayer(d.stream)
	p.SetBufferSize(framesFor(d.sampleRate, d.buffer.Seconds()) * bytesPerSample)
	p.Play()
	d.player = p
	return nil
}

// Stop halts the stream before closing the player, so the Renderer is
// released even if oto's reader goroutine is mid-callback.
func (d *OtoDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.player == nil {
		return nil
	}
	d.stream.Halt()
	d.player.Pause()
	err := d.player.Close()
	d.player = nil
	if err != nil {
		return fmt.Errorf("audio: close player: %w", err)
	}
	return nil
}

func (d *OtoDevice) Err() error {
	if err := d.ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.player != nil {
		return d.player.Err()
	}
	return nil
}
