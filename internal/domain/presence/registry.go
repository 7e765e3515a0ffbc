package presence

import (
	"sync"

	"github.com/rs/zerolog"
)

// Handle is the push side of a live connection. Push must not block: the
// transport buffers and drops when the peer cannot keep up.
type Handle interface {
	Push(event string, payload any)
}

type entry struct {
	handle     Handle
	generation uint64
}

// Registry is the process-wide table mapping a user to its current
// connection. All mutations are serialized behind a single mutex; a
// generation token guards removal so a late disconnect from a superseded
// connection cannot evict a newer one.
type Registry struct {
	mu      sync.Mutex
	entries map[string]entry
	nextGen uint64
	log     zerolog.Logger
}

// NewRegistry creates an empty presence registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		entries: make(map[string]entry),
		log:     log.With().Str("component", "presence-registry").Logger(),
	}
}

// Register records the user's current connection, overwriting any prior
// entry unconditionally (last connect wins). It returns the generation token
// the caller must present on Unregister.
func (r *Registry) Register(userID string, handle Handle) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextGen++
	gen := r.nextGen

	if prev, ok := r.entries[userID]; ok {
		r.log.Debug().
			Str("user_id", userID).
			Uint64("superseded_generation", prev.generation).
			Msg("presence entry superseded by reconnect")
	}

	r.entries[userID] = entry{handle: handle, generation: gen}
	return gen
}

// Lookup returns the user's current connection handle, or nil when the user
// holds no open connection.
func (r *Registry) Lookup(userID string) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[userID]; ok {
		return e.handle
	}
	return nil
}

// Unregister removes the user's entry only when the stored generation still
// matches the supplied token. A disconnect carrying a stale token is a no-op.
func (r *Registry) Unregister(userID string, generation uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[userID]
	if !ok {
		return
	}
	if e.generation != generation {
		r.log.Debug().
			Str("user_id", userID).
			Uint64("stale_generation", generation).
			Uint64("current_generation", e.generation).
			Msg("ignoring stale disconnect")
		return
	}
	delete(r.entries, userID)
}

// Online filters userIDs down to those currently holding a connection and
// returns their handles keyed by user.
func (r *Registry) Online(userIDs []string) map[string]Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	online := make(map[string]Handle)
	for _, id := range userIDs {
		if e, ok := r.entries[id]; ok {
			online[id] = e.handle
		}
	}
	return online
}

// Count returns the number of live presence entries.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
