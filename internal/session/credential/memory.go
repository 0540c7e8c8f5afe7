package credential

import "sync"

// MemoryStore is an in-memory implementation of the store, used in
// tests and for throwaway sessions
type MemoryStore struct {
	mu      sync.Mutex
	token   string
	present bool
}

// Ensure MemoryStore implements the interface
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save overwrites the stored token
func (s *MemoryStore) Save(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.present = true
}

// Load returns the stored token if present
func (s *MemoryStore) Load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return "", false
	}
	return s.token, true
}

// Clear removes the stored token
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.present = false
}
