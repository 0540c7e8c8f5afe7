package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkelsey/devportal/internal/dependencies/clock"
	"github.com/mkelsey/devportal/internal/model"
	"github.com/mkelsey/devportal/internal/storage"
)

// Service handles account registration, credential checks, and token
// issuance for the identity service
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	signingKey []byte
	tokenTTL   time.Duration
}

// Config holds configuration for the account service
type Config struct {
	// SigningKey signs issued tokens
	SigningKey string

	// TokenTTL is the lifetime of issued tokens
	TokenTTL time.Duration
}

// DefaultConfig returns default account service configuration
func DefaultConfig() Config {
	return Config{
		SigningKey: "devportal-dev-key",
		TokenTTL:   24 * time.Hour,
	}
}

// New creates a new account service
func New(store storage.Storage, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}
	if cfg.SigningKey == "" {
		cfg.SigningKey = DefaultConfig().SigningKey
	}
	return &Service{
		storage:    store,
		clock:      clk,
		logger:     logger,
		signingKey: []byte(cfg.SigningKey),
		tokenTTL:   cfg.TokenTTL,
	}
}

// Register creates a new account and issues a token for it
func (s *Service) Register(ctx context.Context, username, email, password string, role model.Role) (*model.Identity, string, error) {
	if role == "" {
		role = model.RoleDeveloper
	}
	if !model.ValidRole(role) {
		return nil, "", model.ErrInvalidRole
	}

	_, err := s.storage.GetAccountByEmail(ctx, email)
	if err == nil {
		return nil, "", model.ErrEmailExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := s.clock.Now()
	account := &model.Account{
		ID:           model.IdentityID(uuid.NewString()),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Favorites:    model.Favorites{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(account)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("account registered",
		slog.String("id", string(account.ID)),
		slog.String("role", string(account.Role)),
	)
	return account.Identity(), token, nil
}

// Login checks credentials and issues a token
func (s *Service) Login(ctx context.Context, email, password string) (*model.Identity, string, error) {
	account, err := s.storage.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, "", model.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, "", model.ErrInvalidCredentials
	}

	token, err := s.issueToken(account)
	if err != nil {
		return nil, "", err
	}
	return account.Identity(), token, nil
}

// Authenticate verifies a token and resolves its account
func (s *Service) Authenticate(ctx context.Context, raw string) (*model.Identity, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return nil, model.ErrInvalidToken
	}

	account, err := s.storage.GetAccount(ctx, model.IdentityID(subject))
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, model.ErrInvalidToken
		}
		return nil, err
	}
	return account.Identity(), nil
}

// UpdateProfile merges a partial update into the account
func (s *Service) UpdateProfile(ctx context.Context, id model.IdentityID, update model.ProfileUpdate) (*model.Identity, error) {
	account, err := s.storage.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		account.Username = *update.Username
	}
	if update.Email != nil {
		account.Email = *update.Email
	}
	if update.Favorites != nil {
		account.Favorites = update.Favorites.Clone()
	}
	account.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account.Identity(), nil
}

// SeedDemoAccounts creates the development accounts when they are
// missing. Existing accounts are left alone.
func (s *Service) SeedDemoAccounts(ctx context.Context, password string) error {
	seeds := []struct {
		username string
		email    string
		role     model.Role
	}{
		{"admin", "admin@devportal.local", model.RoleAdmin},
		{"content", "content@devportal.local", model.RoleContentManager},
		{"dev", "dev@devportal.local", model.RoleDeveloper},
	}

	for _, seed := range seeds {
		_, _, err := s.Register(ctx, seed.username, seed.email, password, seed.role)
		if err != nil && !errors.Is(err, model.ErrEmailExists) {
			return err
		}
	}
	return nil
}

// issueToken mints a signed token carrying the identity claims
func (s *Service) issueToken(account *model.Account) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":      string(account.ID),
		"username": account.Username,
		"email":    account.Email,
		"role":     string(account.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}
