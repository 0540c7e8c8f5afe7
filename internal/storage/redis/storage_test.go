package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mkelsey/devportal/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) account() *model.Account {
	return &model.Account{
		ID:           "u-1",
		Username:     "alice",
		Email:        "Alice@Example.com",
		PasswordHash: "$2a$10$hash",
		Role:         model.RoleDeveloper,
		Favorites:    model.Favorites{model.FavoriteProjects: []string{"p-1"}},
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *StorageSuite) TestSaveAndGetAccount() {
	err := s.storage.SaveAccount(s.ctx, s.account())
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAccount(s.ctx, "u-1")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal(model.RoleDeveloper, retrieved.Role)
	s.True(retrieved.Favorites.Has(model.FavoriteProjects, "p-1"))
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestEmailLookupIsCaseInsensitive() {
	s.Require().NoError(s.storage.SaveAccount(s.ctx, s.account()))

	retrieved, err := s.storage.GetAccountByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.IdentityID("u-1"), retrieved.ID)

	retrieved, err = s.storage.GetAccountByEmail(s.ctx, "ALICE@EXAMPLE.COM")
	s.Require().NoError(err)
	s.Equal(model.IdentityID("u-1"), retrieved.ID)
}

func (s *StorageSuite) TestGetAccountByEmailNotFound() {
	_, err := s.storage.GetAccountByEmail(s.ctx, "ghost@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestDeleteAccountRemovesIndex() {
	s.Require().NoError(s.storage.SaveAccount(s.ctx, s.account()))
	s.Require().NoError(s.storage.DeleteAccount(s.ctx, "u-1"))

	_, err := s.storage.GetAccount(s.ctx, "u-1")
	s.ErrorIs(err, model.ErrAccountNotFound)
	_, err = s.storage.GetAccountByEmail(s.ctx, "alice@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestDeleteMissingAccountIsNotAnError() {
	s.NoError(s.storage.DeleteAccount(s.ctx, "nonexistent"))
}

func (s *StorageSuite) TestEmailChangeDropsOldIndexEntry() {
	account := s.account()
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	account.Email = "alice-new@example.com"
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	_, err := s.storage.GetAccountByEmail(s.ctx, "alice@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)

	retrieved, err := s.storage.GetAccountByEmail(s.ctx, "alice-new@example.com")
	s.Require().NoError(err)
	s.Equal(model.IdentityID("u-1"), retrieved.ID)
}

func (s *StorageSuite) TestSaveOverwritesExisting() {
	account := s.account()
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	account.Username = "renamed"
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	retrieved, err := s.storage.GetAccount(s.ctx, "u-1")
	s.Require().NoError(err)
	s.Equal("renamed", retrieved.Username)
}
