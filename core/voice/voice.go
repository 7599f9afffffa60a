// Package voice defines a tone generator's parameters, its oscillation
// state and the pure functions that sample and advance it.
package voice

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ErrInvalidParameters is wrapped by Parameters.Validate.
var ErrInvalidParameters = errors.New("invalid voice parameters")

// ID identifies a voice for its whole lifetime. It joins the parameter and
// oscillator-state maps of the registry.
type ID string

// NewID mints a random (v4) identifier.
func NewID() ID { return ID(uuid.NewString()) }

func (id ID) String() string { return string(id) }

// Short is the first eight characters of the id, for logs and the HUD.
func (id ID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// Kind tags the waveform variant held by Parameters.
type Kind uint8

const (
	KindSine Kind = iota + 1
)

func (k Kind) String() string {
	switch k {
	case KindSine:
		return "sine"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Sine is a pure tone. Frequency is in Hz, Volume in [0,1].
type Sine struct {
	Frequency float32
	Volume    float32
}

// Parameters is "what to play". Only the field matching Kind is meaningful.
type Parameters struct {
	Kind Kind
	Sine Sine
}

// NewSine returns sine parameters.
func NewSine(frequency, volume float32) Parameters {
	return Parameters{Kind: KindSine, Sine: Sine{Frequency: frequency, Volume: volume}}
}

// Validate reports whether p can be handed to the registry.
func (p Parameters) Validate() error {
	switch p.Kind {
	case KindSine:
		f, v := float64(p.Sine.Frequency), float64(p.Sine.Volume)
		if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			return fmt.Errorf("%w: sine frequency %v must be > 0", ErrInvalidParameters, p.Sine.Frequency)
		}
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: sine volume %v outside [0,1]", ErrInvalidParameters, p.Sine.Volume)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidParameters, p.Kind)
	}
}

func (p Parameters) String() string {
	switch p.Kind {
	case KindSine:
		return fmt.Sprintf("sine(%.2fHz, vol=%.2f)", p.Sine.Frequency, p.Sine.Volume)
	default:
		return p.Kind.String()
	}
}

// OscillatorState is where a voice currently is in its cycle.
// Phase is in radians and stays in [0, 2π).
type OscillatorState struct {
	Phase float64
}
