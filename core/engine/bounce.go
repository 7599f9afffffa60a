package engine

import (
	"fmt"
	"io"
	"math"

	"github.com/ingyamilmolinar/tonefield/core/intent"
	"github.com/ingyamilmolinar/tonefield/core/registry"
	"github.com/ingyamilmolinar/tonefield/internal/audio"
	synth_log "github.com/ingyamilmolinar/tonefield/internal/log"
)

// MaxBounceSeconds caps an offline render.
const MaxBounceSeconds = 3600

// Bounce renders voices from phase zero for the given duration into w as a
// WAV file. It runs its own engine on an offline device, so a live engine's
// oscillators are never touched.
func Bounce(w io.WriteSeeker, voices []registry.Snapshot, sampleRate int, seconds float64, logger *synth_log.Logger) error {
	if !(seconds > 0) || seconds > MaxBounceSeconds {
		return fmt.Errorf("bounce: duration %v outside (0, %d] seconds", seconds, MaxBounceSeconds)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("bounce: sample rate %d must be > 0", sampleRate)
	}
	dev := audio.NewOffline(sampleRate)
	e := New(dev, logger, Options{QueueSize: len(voices) + 1})
	if err := e.Start(); err != nil {
		return err
	}
	defer e.Close()

	for _, v := range voices {
		if err := v.Params.Validate(); err != nil {
			return fmt.Errorf("bounce: voice %s: %w", v.ID.Short(), err)
		}
		if err := e.Submit(intent.Add{ID: v.ID, Params: v.Params}); err != nil {
			return fmt.Errorf("bounce: %w", err)
		}
	}
	e.Tick()

	frames := int(math.Round(seconds * float64(sampleRate)))
	if err := audio.WriteWAV(w, dev, sampleRate, frames); err != nil {
		return fmt.Errorf("bounce: %w", err)
	}
	e.logger.Infof("Bounced %d voices, %d frames at %d Hz", len(voices), frames, sampleRate)
	return nil
}
