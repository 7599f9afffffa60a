package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ingyamilmolinar/tonefield/core/engine"
	"github.com/ingyamilmolinar/tonefield/core/registry"
	synth_log "github.com/ingyamilmolinar/tonefield/internal/log"
)

var errExportCancelled = errors.New("export cancelled")

// exportPath asks where to write an export. Overridden in tests.
var exportPath = saveDialog

// startExport bounces the voices playing right now to a WAV file. The dialog
// and the render run off the update loop; at most one export runs at a time.
func (g *Game) startExport() {
	if !g.exporting.CompareAndSwap(false, true) {
		g.logger.Debugf("Export already in progress")
		return
	}
	voices := g.eng.Voices()
	sr := g.eng.SampleRate()
	g.exports.Add(1)
	go func() {
		defer g.exports.Done()
		defer g.exporting.Store(false)
		path, err := exportPath()
		switch {
		case errors.Is(err, errExportCancelled):
			g.logger.Infof("Export cancelled")
			return
		case err != nil:
			g.logger.Errorf("Export dialog: %v", err)
			return
		}
		if err := writeExport(path, voices, sr, g.exportSeconds, g.logger); err != nil {
			g.logger.Errorf("Export %s: %v", path, err)
			return
		}
		g.logger.Infof("Exported %d voices to %s", len(voices), path)
	}()
}

// Close waits for a running export to finish writing its file. Call it after
// the game loop has returned and before the engine is closed.
func (g *Game) Close() {
	g.exports.Wait()
}

func writeExport(path string, voices []registry.Snapshot, sampleRate int, seconds float64, logger *synth_log.Logger) error {
	if !strings.HasSuffix(strings.ToLower(path), ".wav") {
		path += ".wav"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := engine.Bounce(f, voices, sampleRate, seconds, logger); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
