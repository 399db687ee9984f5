package persona

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Store persists the registry contents across restarts. Implementations
// must be safe for concurrent use.
type Store interface {
	Load() ([]Persona, error)
	Save(items []Persona) error
}

// MemoryRegistry implements Registry with an in-memory map guarded by a
// RWMutex. Mutations optionally write through to a Store collaborator.
type MemoryRegistry struct {
	mu    sync.RWMutex
	byID  map[string]Persona
	order []string
	store Store
}

// NewMemoryRegistry returns a registry preloaded with the supplied personas.
// Later duplicates of an identifier are rejected.
func NewMemoryRegistry(items []Persona) (*MemoryRegistry, error) {
	r := &MemoryRegistry{byID: make(map[string]Persona, len(items))}
	for _, item := range items {
		if err := r.insert(item); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewPersistentRegistry loads personas from the store, falling back to the
// seed when the store is empty, and writes all later mutations through.
func NewPersistentRegistry(seed []Persona, store Store) (*MemoryRegistry, error) {
	items, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load persona store: %w", err)
	}
	if len(items) == 0 {
		items = seed
	}

	r, err := NewMemoryRegistry(items)
	if err != nil {
		return nil, err
	}
	r.store = store

	if err := store.Save(r.List()); err != nil {
		return nil, fmt.Errorf("save persona store: %w", err)
	}
	return r, nil
}

func (r *MemoryRegistry) insert(item Persona) error {
	if item.ID == "" {
		return fmt.Errorf("persona id is empty")
	}
	if _, ok := r.byID[item.ID]; ok {
		return fmt.Errorf("duplicate persona id %q", item.ID)
	}
	r.byID[item.ID] = item
	r.order = append(r.order, item.ID)
	return nil
}

// Resolve returns the system prompt text for the given identifier.
func (r *MemoryRegistry) Resolve(id string) (string, error) {
	if id == "" {
		return "", ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	if !ok {
		return "", ErrNotFound
	}
	return item.Description, nil
}

// List returns all personas in insertion order.
func (r *MemoryRegistry) List() []Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Persona, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Create registers a new persona under a generated identifier.
func (r *MemoryRegistry) Create(description string) (Persona, error) {
	item := Persona{ID: uuid.NewString(), Description: description}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.insert(item); err != nil {
		return Persona{}, err
	}
	if err := r.persistLocked(); err != nil {
		return Persona{}, err
	}
	return item, nil
}

// Update replaces the description of an existing persona.
func (r *MemoryRegistry) Update(id, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	item.Description = description
	r.byID[id] = item
	return r.persistLocked()
}

func (r *MemoryRegistry) persistLocked() error {
	if r.store == nil {
		return nil
	}
	out := make([]Persona, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	if err := r.store.Save(out); err != nil {
		return fmt.Errorf("persist personas: %w", err)
	}
	return nil
}
