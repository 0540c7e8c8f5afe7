package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkelsey/devportal/internal/model"
	"github.com/mkelsey/devportal/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Drop the previous email index entry when the email changed, so
	// the old address stops resolving to this account
	var staleIndex string
	if existing, err := s.GetAccount(ctx, account.ID); err == nil {
		oldKey := emailIndexKey(existing.Email)
		if oldKey != emailIndexKey(account.Email) {
			staleIndex = oldKey
		}
	} else if !errors.Is(err, model.ErrAccountNotFound) {
		return err
	}

	// Pipeline keeps the record and its email index together
	pipe := s.client.Pipeline()
	if staleIndex != "" {
		pipe.Del(ctx, staleIndex)
	}
	pipe.Set(ctx, accountKey(account.ID), data, 0)
	pipe.Set(ctx, emailIndexKey(account.Email), string(account.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id model.IdentityID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	id, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}
	return s.GetAccount(ctx, model.IdentityID(id))
}

func (s *Storage) DeleteAccount(ctx context.Context, id model.IdentityID) error {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, accountKey(id))
	pipe.Del(ctx, emailIndexKey(account.Email))
	_, err = pipe.Exec(ctx)
	return err
}
