package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"

	"github.com/ingyamilmolinar/tonefield/core/engine"
	"github.com/ingyamilmolinar/tonefield/core/registry"
	"github.com/ingyamilmolinar/tonefield/core/voice"
	"github.com/ingyamilmolinar/tonefield/internal/audio"
	"github.com/ingyamilmolinar/tonefield/internal/config"
	synth_log "github.com/ingyamilmolinar/tonefield/internal/log"
	"github.com/ingyamilmolinar/tonefield/internal/ui"
)

// fatalDialog shows an error to a user who may not be watching a terminal.
var fatalDialog = func(msg string) {
	zenity.Error(msg, zenity.Title("Tonefield"), zenity.ErrorIcon)
}

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, os.Stderr))
}

func run(args []string, getenv func(string) string, stderr io.Writer) int {
	cfg, err := config.Load(args, getenv)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	logger := synth_log.New(stderr, cfg.LogLevel)

	if cfg.RenderPath != "" {
		if err := render(cfg, logger); err != nil {
			logger.Errorf("Render failed: %v", err)
			return 1
		}
		return 0
	}
	return interactive(cfg, logger)
}

func render(cfg config.Config, logger *synth_log.Logger) error {
	voices := make([]registry.Snapshot, 0, len(cfg.Tones))
	for _, p := range cfg.Tones {
		voices = append(voices, registry.Snapshot{ID: voice.NewID(), Params: p})
	}
	f, err := os.Create(cfg.RenderPath)
	if err != nil {
		return err
	}
	if err := engine.Bounce(f, voices, cfg.SampleRate, cfg.RenderSeconds, logger); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func interactive(cfg config.Config, logger *synth_log.Logger) int {
	dev, err := audio.NewOtoDevice(cfg.SampleRate, cfg.DeviceBuffer)
	if err != nil {
		logger.Errorf("Cannot open audio output: %v", err)
		fatalDialog(fmt.Sprintf("Cannot open audio output:\n%v", err))
		return 1
	}
	eng := engine.New(dev, logger, engine.Options{QueueSize: cfg.QueueSize, TickInterval: cfg.ControlRate})
	defer eng.Close()
	if err := eng.Start(); err != nil {
		logger.Errorf("%v", err)
		fatalDialog(err.Error())
		return 1
	}

	g := ui.New(eng, logger, ui.Options{
		MinFrequency: cfg.MinFrequency,
		MaxFrequency: cfg.MaxFrequency,
		Width:        cfg.WindowWidth,
		Height:       cfg.WindowHeight,
	})
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("Tonefield")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err = ebiten.RunGame(g)
	g.Close()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Errorf("Game loop: %v", err)
		return 1
	}
	return 0
}
