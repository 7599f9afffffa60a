// Package registry holds every live voice. The parameter map and the
// oscillator-state map sit behind one mutex and are only ever changed
// together, so no reader can see an id in one map but not the other.
package registry

import (
	"sort"
	"sync"

	"github.com/ingyamilmolinar/tonefield/core/voice"
	synth_log "github.com/ingyamilmolinar/tonefield/internal/log"
)

// Snapshot is a read-only copy of one voice, without its phase.
type Snapshot struct {
	ID     voice.ID
	Params voice.Parameters
}

// Visitor is called once per voice while the registry lock is held. It may
// mutate st but must not call back into the registry.
type Visitor func(id voice.ID, p voice.Parameters, st *voice.OscillatorState)

type Registry struct {
	mu     sync.Mutex
	params map[voice.ID]voice.Parameters
	states map[voice.ID]*voice.OscillatorState
	logger *synth_log.Logger
}

func New(logger *synth_log.Logger) *Registry {
	if logger == nil {
		logger = synth_log.Discard()
	}
	return &Registry{
		params: map[voice.ID]voice.Parameters{},
		states: map[voice.ID]*voice.OscillatorState{},
		logger: logger.With("registry"),
	}
}

// Add mints a fresh id and inserts p with a zeroed oscillator.
func (r *Registry) Add(p voice.Parameters) voice.ID {
	for {
		id := voice.NewID()
		if r.Insert(id, p) {
			return id
		}
	}
}

// Insert adds a voice under an id minted by the caller. It reports false,
// leaving the registry untouched, if id is already present.
func (r *Registry) Insert(id voice.ID, p voice.Parameters) bool {
	r.mu.Lock()
	if _, exists := r.params[id]; exists {
		r.mu.Unlock()
		r.logger.Warnf("Insert: id %s already present, ignoring", id.Short())
		return false
	}
	r.params[id] = p
	r.states[id] = &voice.OscillatorState{}
	r.mu.Unlock()
	r.logger.Debugf("Added voice %s %v", id.Short(), p)
	return true
}

// Update replaces the parameters of id and keeps its phase, so the tone
// glides instead of restarting. It reports false if id is not present.
func (r *Registry) Update(id voice.ID, p voice.Parameters) bool {
	r.mu.Lock()
	_, ok := r.params[id]
	if ok {
		r.params[id] = p
	}
	r.mu.Unlock()
	return ok
}

// Clear drops every voice. The maps are replaced, not walked, so the time
// spent holding the lock does not grow with the voice count.
func (r *Registry) Clear() {
	r.mu.Lock()
	n := len(r.params)
	r.params = map[voice.ID]voice.Parameters{}
	r.states = map[voice.ID]*voice.OscillatorState{}
	r.mu.Unlock()
	r.logger.Debugf("Cleared %d voices", n)
}

// Render visits every voice under a single lock acquisition and returns
// how many were visited. It is the audio thread's only way in.
func (r *Registry) Render(fn Visitor) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.params {
		fn(id, p, r.states[id])
	}
	return len(r.params)
}

// Voices copies the current parameters, ordered by id.
func (r *Registry) Voices() []Snapshot {
	r.mu.Lock()
	out := make([]Snapshot, 0, len(r.params))
	for id, p := range r.params {
		out = append(out, Snapshot{ID: id, Params: p})
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the parameters of id.
func (r *Registry) Get(id voice.ID) (voice.Parameters, bool) {
	r.mu.Lock()
	p, ok := r.params[id]
	r.mu.Unlock()
	return p, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.params)
}

// Consistent reports whether both maps hold exactly the same ids and every
// state is non-nil.
func (r *Registry) Consistent() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.params) != len(r.states) {
		return false
	}
	for id := range r.params {
		if st, ok := r.states[id]; !ok || st == nil {
			return false
		}
	}
	return true
}
