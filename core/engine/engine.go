package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ingyamilmolinar/tonefield/core/intent"
	"github.com/ingyamilmolinar/tonefield/core/mixer"
	"github.com/ingyamilmolinar/tonefield/core/registry"
	"github.com/ingyamilmolinar/tonefield/internal/audio"
	synth_log "github.com/ingyamilmolinar/tonefield/internal/log"
)

// DefaultTickInterval is the control rate used by Run when none is given.
const DefaultTickInterval = 16 * time.Millisecond

// Options tune an Engine. Zero values pick defaults.
type Options struct {
	QueueSize    int
	TickInterval time.Duration
}

// Engine owns the voice registry and connects the control plane (intents,
// drained once per tick) to the audio plane (the mixer, driven by the
// device).
type Engine struct {
	reg    *registry.Registry
	queue  *intent.Queue
	mix    *mixer.Mixer
	device audio.Device
	logger *synth_log.Logger
	tick   time.Duration

	mu        sync.Mutex // serializes Tick and Close
	started   bool
	closed    bool
	deviceErr error // last runtime error reported, logged once
	clips     uint64
}

// New wires an engine to device. Nothing is audible until Start.
func New(device audio.Device, logger *synth_log.Logger, opts Options) *Engine {
	if logger == nil {
		logger = synth_log.Discard()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	reg := registry.New(logger)
	return &Engine{
		reg:    reg,
		queue:  intent.NewQueue(opts.QueueSize),
		mix:    mixer.New(reg, device.SampleRate()),
		device: device,
		logger: logger.With("engine"),
		tick:   opts.TickInterval,
	}
}

// Start hands the mixer to the device.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return errors.New("engine: closed")
	}
	if e.started {
		return nil
	}
	if err := e.device.Start(e.mix); err != nil {
		return fmt.Errorf("engine: start device: %w", err)
	}
	e.started = true
	e.logger.Infof("Audio started at %d Hz", e.device.SampleRate())
	return nil
}

// Submit queues an intent for the next tick. It never blocks.
func (e *Engine) Submit(in intent.Intent) error {
	if err := e.queue.Submit(in); err != nil {
		e.logger.Warnf("Dropped %v: %v", in, err)
		return err
	}
	return nil
}

// Tick is one control-plane step: apply queued intents in order, then
// report what the audio thread flagged since the previous tick.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.queue.Drain(func(in intent.Intent) {
		e.logger.Debugf("Apply %v", in)
		intent.Apply(e.reg, in, e.logger)
	})
	e.reportDiagnostics()
}

func (e *Engine) reportDiagnostics() {
	d := e.mix.TakeDiagnostics()
	if d.Clips > 0 {
		e.clips += d.Clips
		e.logger.Debugf("Pre-normalization sum exceeded 1.0 in %d samples (peak %.3f)", d.Clips, d.Peak)
	}
	if d.Faults > 0 {
		e.logger.Errorf("Render faulted on %d samples, emitted silence", d.Faults)
	}
	if err := e.device.Err(); err != nil && !errors.Is(err, e.deviceErr) {
		// the stream is not recreated; restarting is up to the user
		e.deviceErr = err
		e.logger.Errorf("Audio stream error: %v", err)
	}
}

// Run ticks at the configured control rate until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.Tick()
		case <-ctx.Done():
			return
		}
	}
}

// Voices returns what is currently playing, for drawing.
func (e *Engine) Voices() []registry.Snapshot { return e.reg.Voices() }

// Clips is the running count of samples whose unnormalized mix exceeded 1.
func (e *Engine) Clips() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clips
}

// SampleRate of the device the engine renders for.
func (e *Engine) SampleRate() int { return e.device.SampleRate() }

// Close stops the device stream and only then drops the voices, so the
// audio thread never renders a registry being torn down.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	var err error
	if e.started {
		if err = e.device.Stop(); err != nil {
			err = fmt.Errorf("engine: stop device: %w", err)
		}
	}
	e.reg.Clear()
	e.logger.Infof("Engine closed")
	return err
}
