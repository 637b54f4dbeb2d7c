package identity

import (
	"fmt"

	"github.com/mcoot/rpsarena/internal/dependencies/clock"
	"github.com/mcoot/rpsarena/internal/dependencies/random"
	"github.com/mcoot/rpsarena/internal/model"
)

var (
	namePrefixes = []string{"Neon", "Cyber", "Shadow", "Cosmic", "Pixel", "Rapid", "Turbo", "Iron", "Solar", "Atomic"}
	nameSuffixes = []string{"Ninja", "Wolf", "Hawk", "Viper", "Ghost", "Knight", "Storm", "Falcon", "Raven", "Tiger"}
)

// Registry maps live handles to their identities.
// It is not safe for concurrent use; the arena engine owns it.
type Registry struct {
	identities map[model.Handle]*model.Identity
	order      []model.Handle // insertion order
	clock      clock.Clock
	random     random.Random
}

// NewRegistry creates an empty Registry
func NewRegistry(clock clock.Clock, random random.Random) *Registry {
	return &Registry{
		identities: make(map[model.Handle]*model.Identity),
		clock:      clock,
		random:     random,
	}
}

// GenerateName builds a display name such as "NeonWolf42".
// Names are not guaranteed unique.
func GenerateName(rnd random.Random) string {
	prefix := namePrefixes[rnd.Intn(len(namePrefixes))]
	suffix := nameSuffixes[rnd.Intn(len(nameSuffixes))]
	return fmt.Sprintf("%s%s%d", prefix, suffix, rnd.Intn(100))
}

// Connect creates a fresh identity for the handle.
// An already registered handle gets its existing identity back unchanged.
func (r *Registry) Connect(handle model.Handle) model.Identity {
	if existing, ok := r.identities[handle]; ok {
		return *existing
	}

	identity := &model.Identity{
		Handle:      handle,
		DisplayName: GenerateName(r.random),
		ConnectedAt: r.clock.Now(),
	}
	r.identities[handle] = identity
	r.order = append(r.order, handle)
	return *identity
}

// Disconnect removes the handle's identity, returning false if it was not registered
func (r *Registry) Disconnect(handle model.Handle) bool {
	if _, ok := r.identities[handle]; !ok {
		return false
	}
	delete(r.identities, handle)
	for i, h := range r.order {
		if h == handle {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of the handle's identity
func (r *Registry) Get(handle model.Handle) (model.Identity, bool) {
	identity, ok := r.identities[handle]
	if !ok {
		return model.Identity{}, false
	}
	return *identity, true
}

// IsLive returns true if the handle has a registered identity
func (r *Registry) IsLive(handle model.Handle) bool {
	_, ok := r.identities[handle]
	return ok
}

// RecordWin awards the win reward to the handle. Unknown handles are ignored.
func (r *Registry) RecordWin(handle model.Handle) bool {
	identity, ok := r.identities[handle]
	if !ok {
		return false
	}
	identity.Score += model.WinReward
	identity.Wins++
	return true
}

// Count returns the number of live identities
func (r *Registry) Count() int {
	return len(r.identities)
}

// All returns copies of every live identity in insertion order
func (r *Registry) All() []model.Identity {
	result := make([]model.Identity, 0, len(r.order))
	for _, h := range r.order {
		result = append(result, *r.identities[h])
	}
	return result
}
