package settings

import (
	"github.com/oomph-ac/locomotion/vertical"
	"github.com/pelletier/go-toml"
	"github.com/sasha-s/go-deadlock"
	"github.com/zeebo/xxh3"
)

// Registry interns gravity profiles, so that characters configured with equal profiles share a
// single read-only instance.
type Registry struct {
	profiles map[uint64]*vertical.GravityProfile

	mu deadlock.RWMutex
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[uint64]*vertical.GravityProfile)}
}

// Intern validates the profile passed and returns the shared instance equal to it, registering it
// first if no equal profile was interned before.
func (r *Registry) Intern(p vertical.GravityProfile) (*vertical.GravityProfile, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	key, err := profileKey(p)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	shared, ok := r.profiles[key]
	r.mu.RUnlock()
	if ok {
		return shared, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if shared, ok := r.profiles[key]; ok {
		return shared, nil
	}
	cp := p.Clone()
	shared = &cp
	r.profiles[key] = shared
	return shared, nil
}

// Len returns the number of distinct profiles interned.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}

// profileKey hashes the canonical TOML encoding of a profile.
func profileKey(p vertical.GravityProfile) (uint64, error) {
	data, err := toml.Marshal(p)
	if err != nil {
		return 0, err
	}
	return xxh3.Hash(data), nil
}
