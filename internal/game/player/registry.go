package player

import (
	"fmt"
	"sync"
)

// Registry holds every loaded profile keyed by user id.
// All methods are safe for concurrent use; multi-step mutations are expected
// to run under the game's concurrency guard.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewRegistry creates a Registry seeded with profiles.
//
// Postcondition: Get(id) returns profiles[id] for every key.
func NewRegistry(profiles map[string]*Profile) *Registry {
	r := &Registry{profiles: make(map[string]*Profile, len(profiles))}
	for id, p := range profiles {
		if p.Inventory == nil {
			p.Inventory = Inventory{}
		}
		r.profiles[id] = p
	}
	return r
}

// Get returns the live profile for userID.
//
// Postcondition: ok is true iff the user is registered.
func (r *Registry) Get(userID string) (*Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	return p, ok
}

// Add stores a new profile.
//
// Precondition: p must be non-nil with a non-empty UserID.
// Postcondition: Returns an error if the user id is already present.
func (r *Registry) Add(p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.profiles[p.UserID]; exists {
		return fmt.Errorf("player %q already registered", p.UserID)
	}
	r.profiles[p.UserID] = p
	return nil
}

// Remove deletes the profile and reports whether it existed.
func (r *Registry) Remove(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.profiles[userID]
	delete(r.profiles, userID)
	return ok
}

// Snapshot returns the live profiles sorted by user id.
func (r *Registry) Snapshot() []*Profile {
	r.mu.RLock()
	out := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	r.mu.RUnlock()
	SortProfiles(out)
	return out
}

// Len returns the number of registered players.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}
