package classify

import (
	"fmt"
	"sync/atomic"
)

// Store holds the active model and lets a retrain swap it in without
// blocking in-flight predictions
type Store struct {
	current atomic.Pointer[Model]
}

// NewStore returns an empty store; Current is nil until a model loads
func NewStore() *Store {
	return &Store{}
}

// Current returns the active model, or nil when none is loaded
func (s *Store) Current() *Model {
	return s.current.Load()
}

// Swap installs a new model and returns the one it replaced
func (s *Store) Swap(m *Model) *Model {
	return s.current.Swap(m)
}

// LoadFile reads an artifact from disk and installs its model.
// The active model is untouched when loading fails.
func (s *Store) LoadFile(path string) error {
	a, err := LoadArtifact(path)
	if err != nil {
		return err
	}
	m, err := a.Model()
	if err != nil {
		return fmt.Errorf("restoring model from %s: %w", path, err)
	}
	s.Swap(m)
	return nil
}
