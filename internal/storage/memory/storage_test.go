package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mkelsey/devportal/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndLookupByEmail() {
	account := &model.Account{ID: "u-1", Username: "alice", Email: "Alice@Example.com"}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	retrieved, err := s.storage.GetAccountByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.IdentityID("u-1"), retrieved.ID)
}

func (s *StorageSuite) TestGetMissingAccount() {
	_, err := s.storage.GetAccount(s.ctx, "nope")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestEmailChangeDropsOldIndexEntry() {
	account := &model.Account{ID: "u-1", Username: "alice", Email: "alice@example.com"}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	account.Email = "alice-new@example.com"
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	_, err := s.storage.GetAccountByEmail(s.ctx, "alice@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)

	retrieved, err := s.storage.GetAccountByEmail(s.ctx, "alice-new@example.com")
	s.Require().NoError(err)
	s.Equal(model.IdentityID("u-1"), retrieved.ID)
}

func (s *StorageSuite) TestReturnedAccountIsACopy() {
	account := &model.Account{ID: "u-1", Username: "alice", Email: "alice@example.com"}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	retrieved, err := s.storage.GetAccount(s.ctx, "u-1")
	s.Require().NoError(err)
	retrieved.Email = "mutated@example.com"

	stored, err := s.storage.GetAccount(s.ctx, "u-1")
	s.Require().NoError(err)
	s.Equal("alice@example.com", stored.Email)
}

func (s *StorageSuite) TestDeleteRemovesEmailIndex() {
	account := &model.Account{ID: "u-1", Username: "alice", Email: "alice@example.com"}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))
	s.Require().NoError(s.storage.DeleteAccount(s.ctx, "u-1"))

	_, err := s.storage.GetAccountByEmail(s.ctx, "alice@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)
}
