// Command playtest plays one sine through the default output device for a
// few seconds, then a second one on top, to check a machine's audio setup
// without opening a window.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/ingyamilmolinar/tonefield/core/engine"
	"github.com/ingyamilmolinar/tonefield/core/intent"
	"github.com/ingyamilmolinar/tonefield/core/voice"
	"github.com/ingyamilmolinar/tonefield/internal/audio"
	synth_log "github.com/ingyamilmolinar/tonefield/internal/log"
)

func main() {
	freq := flag.Float64("freq", 440, "tone frequency in Hz")
	secs := flag.Duration("for", 2*time.Second, "how long each stage plays")
	flag.Parse()
	logger := synth_log.New(os.Stderr, synth_log.LevelDebug)

	dev, err := audio.NewOtoDevice(44100, 10*time.Millisecond)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	eng := engine.New(dev, logger, engine.Options{})
	if err := eng.Start(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	defer eng.Close()

	eng.Submit(intent.Add{ID: voice.NewID(), Params: voice.NewSine(float32(*freq), 0.5)})
	eng.Tick()
	time.Sleep(*secs)
	// a fifth above, to hear normalization halve the first tone
	eng.Submit(intent.Add{ID: voice.NewID(), Params: voice.NewSine(float32(*freq*1.5), 0.5)})
	eng.Tick()
	time.Sleep(*secs)
	eng.Tick()
}
