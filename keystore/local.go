package keystore

import (
	"sync"

	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/jwk"
)

// Local is an in-memory Store, keyed by thumbprint.
type Local struct {
	mu   sync.RWMutex
	keys map[string]jwk.Key
}

// NewLocal returns an empty Local store.
func NewLocal() *Local {
	return &Local{keys: make(map[string]jwk.Key)}
}

// Add implements Store.
func (s *Local) Add(key jwk.Key) error {
	tp, err := key.Thumbprint()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[tp] = key
	return nil
}

// Get implements Store.
func (s *Local) Get(tp string) (jwk.Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.keys[tp]
	if !ok {
		return nil, errors.KeyNotFound(tp)
	}
	return k, nil
}

// Contains implements Store.
func (s *Local) Contains(tp string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[tp]
	return ok
}

// Upload implements Store; for a Local store it is equivalent to Add.
func (s *Local) Upload(key jwk.Key) error {
	return s.Add(key)
}
