// Package subject defines the fixed set of subjects notes are filed under.
package subject

import "sort"

// Registry maps subject keys to human-readable display names. It is built
// once at startup and never mutated; every component that needs subject
// validation receives the same instance.
type Registry struct {
	names map[string]string
	keys  []string
}

// Default returns the registry with the standard subject set.
func Default() *Registry {
	return New(map[string]string{
		"physics":             "Physics",
		"math":                "Mathematics",
		"computer":            "Computer Science",
		"english":             "English",
		"engineering_drawing": "Engineering Drawing",
	})
}

// New builds a registry from a key -> display name mapping.
func New(names map[string]string) *Registry {
	r := &Registry{
		names: make(map[string]string, len(names)),
		keys:  make([]string, 0, len(names)),
	}
	for key, name := range names {
		r.names[key] = name
		r.keys = append(r.keys, key)
	}
	sort.Strings(r.keys)
	return r
}

// Valid reports whether key is a registered subject.
func (r *Registry) Valid(key string) bool {
	_, ok := r.names[key]
	return ok
}

// DisplayName returns the human-readable name for a subject key.
func (r *Registry) DisplayName(key string) (string, bool) {
	name, ok := r.names[key]
	return name, ok
}

// Keys returns all subject keys in sorted order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// All returns a copy of the key -> display name mapping.
func (r *Registry) All() map[string]string {
	out := make(map[string]string, len(r.names))
	for k, v := range r.names {
		out[k] = v
	}
	return out
}

// Len returns the number of registered subjects.
func (r *Registry) Len() int {
	return len(r.keys)
}
