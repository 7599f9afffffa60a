// Package ui is the interactive control surface: an ebiten game whose
// update loop turns pointer and key gestures into engine intents and drives
// the engine's control tick.
package ui

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ingyamilmolinar/tonefield/core/intent"
	"github.com/ingyamilmolinar/tonefield/core/registry"
	"github.com/ingyamilmolinar/tonefield/core/voice"
	synth_log "github.com/ingyamilmolinar/tonefield/internal/log"
)

// Engine is what the surface needs from core/engine.
type Engine interface {
	Submit(intent.Intent) error
	Tick()
	Voices() []registry.Snapshot
	Clips() uint64
	SampleRate() int
}

type Options struct {
	MinFrequency  float64
	MaxFrequency  float64
	ExportSeconds float64
	Width, Height int // initial size until ebiten calls Layout
}

type Game struct {
	eng    Engine
	logger *synth_log.Logger

	fmin, fmax    float64
	exportSeconds float64
	winW, winH    int

	/* gesture state */
	dragging *voice.ID // voice following the pointer, if any
	left     edge
	keyQ     edge
	keyE     edge

	exporting atomic.Bool
	exports   sync.WaitGroup

	frame int64
}

func New(eng Engine, logger *synth_log.Logger, opts Options) *Game {
	if logger == nil {
		logger = synth_log.Discard()
	}
	if opts.ExportSeconds <= 0 {
		opts.ExportSeconds = 2
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	return &Game{
		eng:           eng,
		logger:        logger.With("game"),
		fmin:          opts.MinFrequency,
		fmax:          opts.MaxFrequency,
		exportSeconds: opts.ExportSeconds,
		winW:          opts.Width,
		winH:          opts.Height,
	}
}

func (g *Game) Layout(w, h int) (int, int) {
	if w != g.winW || h != g.winH {
		g.logger.Debugf("Layout: %dx%d", w, h)
	}
	g.winW, g.winH = w, h
	return w, h
}

/* ───────────────────────── update ───────────────────────── */

func (g *Game) Update() error {
	if isKeyPressed(ebiten.KeyEscape) {
		g.logger.Infof("Quit requested")
		return ebiten.Termination
	}
	g.handleInput()
	g.eng.Tick()
	g.frame++
	return nil
}

func (g *Game) handleInput() {
	if g.keyQ.pressed(isKeyPressed(ebiten.KeyQ)) {
		g.submit(intent.Clear{})
		g.dragging = nil
	}

	down := isMouseButtonPressed(ebiten.MouseButtonLeft)
	mx, my := cursorPosition()
	switch {
	case g.left.pressed(down):
		id := voice.NewID()
		if g.submit(intent.Add{ID: id, Params: g.paramsAt(mx, my)}) {
			g.dragging = &id
		}
	case down && g.dragging != nil:
		g.submit(intent.Update{ID: *g.dragging, Params: g.paramsAt(mx, my)})
	case !down:
		g.dragging = nil
	}

	if g.keyE.pressed(isKeyPressed(ebiten.KeyE)) {
		g.startExport()
	}
}

// submit reports whether the intent was queued; the engine logs drops.
func (g *Game) submit(in intent.Intent) bool {
	err := g.eng.Submit(in)
	if errors.Is(err, intent.ErrQueueFull) {
		return false
	}
	return err == nil
}

// Dragging returns the id of the voice under the pointer.
func (g *Game) Dragging() (voice.ID, bool) {
	if g.dragging == nil {
		return "", false
	}
	return *g.dragging, true
}

/* ───────────────────────── draw ───────────────────────── */

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	// one guide per octave above the left edge
	for f := g.fmin * 2; f < g.fmax; f *= 2 {
		x, _ := g.positionOf(voice.NewSine(float32(f), 0))
		drawGuide(screen, x, g.winH)
	}

	voices := g.eng.Voices()
	for _, v := range voices {
		x, y := g.positionOf(v.Params)
		dragged := g.dragging != nil && *g.dragging == v.ID
		fill := colVoice
		if dragged {
			fill = colDragging
		}
		drawVoice(screen, x, y, fill, dragged)
	}
	drawText(screen, g.hud(len(voices)))
}

func (g *Game) hud(voices int) string {
	s := fmt.Sprintf("voices: %d  clipped: %d\n[click+drag] play  [Q] clear  [E] export  [Esc] quit",
		voices, g.eng.Clips())
	if g.exporting.Load() {
		s += "\nexporting..."
	}
	return s
}
