package identity

import "github.com/nicfit/clique/jwk"

// KeySet is an insertion-ordered set of keys, indexed by thumbprint. It
// backs an Identity's key-rotation history: re-adding a known thumbprint
// overwrites the stored key but does not change its position.
type KeySet struct {
	order []string
	byTP  map[string]jwk.Key
}

// NewKeySet returns an empty key set.
func NewKeySet() *KeySet {
	return &KeySet{byTP: make(map[string]jwk.Key)}
}

// Add inserts `k`, keyed by its thumbprint. If the thumbprint is already
// present, the stored key is overwritten in place; insertion order is
// otherwise preserved.
func (s *KeySet) Add(k jwk.Key) error {
	tp, err := k.Thumbprint()
	if err != nil {
		return err
	}
	if _, ok := s.byTP[tp]; !ok {
		s.order = append(s.order, tp)
	}
	s.byTP[tp] = k
	return nil
}

// Contains reports whether `tp` is a known thumbprint in this set.
func (s *KeySet) Contains(tp string) bool {
	_, ok := s.byTP[tp]
	return ok
}

// Get returns the key stored under thumbprint `tp`, if any.
func (s *KeySet) Get(tp string) (jwk.Key, bool) {
	k, ok := s.byTP[tp]
	return k, ok
}

// Len returns the number of keys in the set.
func (s *KeySet) Len() int {
	return len(s.order)
}

// Ordered returns the keys in insertion order.
func (s *KeySet) Ordered() []jwk.Key {
	out := make([]jwk.Key, len(s.order))
	for i, tp := range s.order {
		out[i] = s.byTP[tp]
	}
	return out
}
