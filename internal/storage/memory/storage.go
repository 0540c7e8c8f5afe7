package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/mkelsey/devportal/internal/model"
	"github.com/mkelsey/devportal/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts   map[model.IdentityID]*model.Account
	emailIndex map[string]model.IdentityID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:   make(map[model.IdentityID]*model.Account),
		emailIndex: make(map[string]model.IdentityID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop the previous email index entry when the email changed, so
	// the old address stops resolving to this account
	if existing, ok := s.accounts[account.ID]; ok {
		oldEmail := strings.ToLower(existing.Email)
		if oldEmail != strings.ToLower(account.Email) {
			delete(s.emailIndex, oldEmail)
		}
	}

	// Store a copy so later mutation of the caller's struct cannot
	// bypass the index bookkeeping above
	s.accounts[account.ID] = account.Clone()
	s.emailIndex[strings.ToLower(account.Email)] = account.ID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.IdentityID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return account.Clone(), nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return account.Clone(), nil
}

func (s *Storage) DeleteAccount(ctx context.Context, id model.IdentityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.accounts[id]; ok {
		delete(s.emailIndex, strings.ToLower(account.Email))
		delete(s.accounts, id)
	}
	return nil
}
