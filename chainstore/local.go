package chainstore

import (
	"sync"

	"github.com/nicfit/clique/errors"
)

// Local is an in-memory Store, keyed by subject.
type Local struct {
	mu     sync.RWMutex
	chains map[string]Chain
}

// NewLocal returns an empty Local store.
func NewLocal() *Local {
	return &Local{chains: make(map[string]Chain)}
}

// Add implements Store. It fails if the subject is already present.
func (s *Local) Add(chain Chain) error {
	sub := chain.Subject()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chains[sub]; ok {
		return errors.ValueError("chain %q already set", sub)
	}
	s.chains[sub] = chain
	return nil
}

// Get implements Store.
func (s *Local) Get(subject string) (Chain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chains[subject]
	if !ok {
		return nil, errors.ChainNotFound(subject)
	}
	return c, nil
}

// Upload implements Store; for a Local store it is equivalent to Add.
func (s *Local) Upload(chain Chain) error {
	return s.Add(chain)
}

// Clear drops every cached chain.
func (s *Local) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chains = make(map[string]Chain)
}
