package storage

import (
	"context"

	"github.com/mkelsey/devportal/internal/model"
)

// Storage defines the interface for account persistence
type Storage interface {
	// SaveAccount creates or overwrites an account and its email index
	SaveAccount(ctx context.Context, account *model.Account) error

	// GetAccount looks an account up by id
	GetAccount(ctx context.Context, id model.IdentityID) (*model.Account, error)

	// GetAccountByEmail looks an account up by its login email
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)

	// DeleteAccount removes an account; deleting a missing account is not an error
	DeleteAccount(ctx context.Context, id model.IdentityID) error
}
