package store

import (
	"context" // Context for store operations
	"strings" // Prefix matching
	"sync"    // Mutex for concurrent access

	"moneybook/internal/domain" // Importing domain models
)

// MemoryStore implements IdentityStore and TransactionStore in process memory.
// Transactions are indexed by owner, so reads never scan other users' records.
// Intended for tests and local runs, not as authoritative multi-request state.
type MemoryStore struct {
	mu      sync.RWMutex                    // Guards both maps
	users   map[string]domain.User          // Keyed by user_id
	ledgers map[string][]domain.Transaction // Keyed by owner user_id, append order preserved
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]domain.User),
		ledgers: make(map[string][]domain.Transaction),
	}
}

// CreateUser appends a new user, rejecting an already registered email
func (s *MemoryStore) CreateUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Case-sensitive exact match against stored emails
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	s.users[u.UserID] = u
	return nil
}

// UserByEmail looks a user up by exact email match
func (s *MemoryStore) UserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

// UserByID looks a user up by its opaque ID
func (s *MemoryStore) UserByID(_ context.Context, userID string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

// Append adds a single transaction to its owner's ledger
func (s *MemoryStore) Append(_ context.Context, t domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[t.UserID] = append(s.ledgers[t.UserID], t)
	return nil
}

// ListByOwner returns the owner's transactions in append order,
// optionally narrowed by kind and YYYY-MM month prefix
func (s *MemoryStore) ListByOwner(_ context.Context, userID, kind, month string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Transaction
	for _, t := range s.ledgers[userID] {
		if kind != "" && t.Kind != kind {
			continue // Wrong kind
		}
		if month != "" && !strings.HasPrefix(t.CreatedAt, month) {
			continue // Outside the requested month
		}
		out = append(out, t)
	}
	return out, nil
}
