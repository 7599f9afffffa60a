// Package config collects the application shell's settings from defaults,
// the environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ingyamilmolinar/tonefield/core/voice"
	synth_log "github.com/ingyamilmolinar/tonefield/internal/log"
)

var ErrInvalid = errors.New("invalid configuration")

const (
	EnvLogLevel   = "TONEFIELD_LOG_LEVEL"
	EnvSampleRate = "TONEFIELD_SAMPLE_RATE"
)

// Default pitch range of the control surface: C3 to C5.
const (
	DefaultMinFrequency = 130.8262
	DefaultMaxFrequency = 523.2511
)

// MaxRenderSeconds bounds -seconds; it matches engine.MaxBounceSeconds.
const MaxRenderSeconds = 3600

type Config struct {
	SampleRate   int
	DeviceBuffer time.Duration
	ControlRate  time.Duration // tick period when no UI drives the engine
	QueueSize    int

	WindowWidth  int
	WindowHeight int
	MinFrequency float64
	MaxFrequency float64

	LogLevel synth_log.Level

	// Offline render mode; empty RenderPath means interactive.
	RenderPath    string
	RenderSeconds float64
	Tones         []voice.Parameters
}

func Default() Config {
	return Config{
		SampleRate:    44100,
		DeviceBuffer:  10 * time.Millisecond,
		ControlRate:   time.Second / 60,
		QueueSize:     256,
		WindowWidth:   1280,
		WindowHeight:  720,
		MinFrequency:  DefaultMinFrequency,
		MaxFrequency:  DefaultMaxFrequency,
		LogLevel:      synth_log.LevelInfo,
		RenderSeconds: 2,
	}
}

// Load builds a Config from defaults, then env, then args (without the
// program name).
func Load(args []string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()
	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("tonefield", flag.ContinueOnError)
	logLevel := fs.String("log", cfg.LogLevel.String(), "log level: debug, info, warn, error, none")
	fs.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "output sample rate in Hz")
	fs.DurationVar(&cfg.DeviceBuffer, "buffer", cfg.DeviceBuffer, "audio device buffer duration")
	fs.IntVar(&cfg.WindowWidth, "width", cfg.WindowWidth, "window width in pixels")
	fs.IntVar(&cfg.WindowHeight, "height", cfg.WindowHeight, "window height in pixels")
	fs.Float64Var(&cfg.MinFrequency, "fmin", cfg.MinFrequency, "frequency at the left edge in Hz")
	fs.Float64Var(&cfg.MaxFrequency, "fmax", cfg.MaxFrequency, "frequency at the right edge in Hz")
	fs.StringVar(&cfg.RenderPath, "render", "", "render tones to this WAV file instead of opening a window")
	fs.Float64Var(&cfg.RenderSeconds, "seconds", cfg.RenderSeconds, "length of an offline render")
	fs.Func("tone", "offline tone as FREQ:VOLUME, repeatable", func(s string) error {
		p, err := ParseTone(s)
		if err != nil {
			return err
		}
		cfg.Tones = append(cfg.Tones, p)
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	cfg.LogLevel = synth_log.LevelFromString(*logLevel)
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = synth_log.LevelFromString(v)
	}
	if v := getenv(EnvSampleRate); v != "" {
		sr, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvSampleRate, v, err)
		}
		c.SampleRate = sr
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d must be > 0", ErrInvalid, c.SampleRate)
	case c.DeviceBuffer <= 0:
		return fmt.Errorf("%w: device buffer %v must be > 0", ErrInvalid, c.DeviceBuffer)
	case c.ControlRate <= 0:
		return fmt.Errorf("%w: control rate %v must be > 0", ErrInvalid, c.ControlRate)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue size %d must be > 0", ErrInvalid, c.QueueSize)
	case c.WindowWidth <= 0 || c.WindowHeight <= 0:
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.WindowWidth, c.WindowHeight)
	case !(c.MinFrequency > 0) || !(c.MaxFrequency > c.MinFrequency):
		return fmt.Errorf("%w: frequency range [%v, %v]", ErrInvalid, c.MinFrequency, c.MaxFrequency)
	case c.RenderPath != "" && !(c.RenderSeconds > 0 && c.RenderSeconds <= MaxRenderSeconds):
		return fmt.Errorf("%w: render length %v outside (0, %d]", ErrInvalid, c.RenderSeconds, MaxRenderSeconds)
	}
	return nil
}

// ParseTone reads "FREQ:VOLUME" (volume defaults to 0.5 when omitted).
func ParseTone(s string) (voice.Parameters, error) {
	freqStr, volStr, hasVol := strings.Cut(strings.TrimSpace(s), ":")
	f, err := strconv.ParseFloat(freqStr, 32)
	if err != nil {
		return voice.Parameters{}, fmt.Errorf("tone %q: frequency: %w", s, err)
	}
	vol := 0.5
	if hasVol {
		if vol, err = strconv.ParseFloat(volStr, 32); err != nil {
			return voice.Parameters{}, fmt.Errorf("tone %q: volume: %w", s, err)
		}
	}
	p := voice.NewSine(float32(f), float32(vol))
	if err := p.Validate(); err != nil {
		return voice.Parameters{}, fmt.Errorf("tone %q: %w", s, err)
	}
	return p, nil
}
