// Package intent carries voice changes from the control surface to the
// registry. Intents are queued as they are produced and applied in order
// once per control tick.
package intent

import (
	"errors"
	"fmt"

	"github.com/ingyamilmolinar/tonefield/core/registry"
	"github.com/ingyamilmolinar/tonefield/core/voice"
	synth_log "github.com/ingyamilmolinar/tonefield/internal/log"
)

// ErrQueueFull is returned by Submit when the queue cannot take more intents
// until the next drain.
var ErrQueueFull = errors.New("intent queue full")

// Intent is one of Clear, Add or Update.
type Intent interface {
	intent()
	String() string
}

// Clear removes every voice.
type Clear struct{}

// Add creates a voice under an id minted by the producer, so the producer
// can follow up with Updates before the Add has been applied.
type Add struct {
	ID     voice.ID
	Params voice.Parameters
}

// Update replaces the parameters of an existing voice.
type Update struct {
	ID     voice.ID
	Params voice.Parameters
}

func (Clear) intent()  {}
func (Add) intent()    {}
func (Update) intent() {}

func (Clear) String() string    { return "Clear" }
func (a Add) String() string    { return fmt.Sprintf("Add(%s, %v)", a.ID.Short(), a.Params) }
func (u Update) String() string { return fmt.Sprintf("Update(%s, %v)", u.ID.Short(), u.Params) }

// Apply performs in against reg. An Update whose voice is gone lost a race
// with a Clear; it is dropped and only logged at debug level.
func Apply(reg *registry.Registry, in Intent, logger *synth_log.Logger) {
	switch v := in.(type) {
	case Clear:
		reg.Clear()
	case Add:
		reg.Insert(v.ID, v.Params)
	case Update:
		if !reg.Update(v.ID, v.Params) {
			logger.Debugf("Dropped stale %v", v)
		}
	default:
		logger.Warnf("Unknown intent %T ignored", in)
	}
}
