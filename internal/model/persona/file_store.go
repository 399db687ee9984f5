package persona

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the persona registry as a single JSON document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore ensures the backing file exists and returns the store.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileStore{path: path}, nil
}

// Load reads all personas from the document. An empty file yields an
// empty slice, not an error.
func (s *FileStore) Load() ([]Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var items []Persona
	if err := json.NewDecoder(f).Decode(&items); err != nil {
		if err == io.EOF {
			return []Persona{}, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	return items, nil
}

// Save replaces the document with the supplied personas.
func (s *FileStore) Save(items []Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
