package persona

import "errors"

var (
	// ErrNotFound indicates the persona identifier is unset or unknown.
	ErrNotFound = errors.New("persona not found")
)

// Persona is a named system prompt defining assistant behavior.
type Persona struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Registry exposes persona resolution for the gateway and an
// admin-gated mutation surface.
type Registry interface {
	// Resolve returns the system prompt text for the given identifier.
	Resolve(id string) (string, error)
	// List returns all personas in insertion order.
	List() []Persona
	// Create registers a new persona under a fresh identifier.
	Create(description string) (Persona, error)
	// Update replaces the description of an existing persona.
	Update(id, description string) error
}
