package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkelsey/devportal/internal/model"
)

// Config holds gateway configuration
type Config struct {
	// BaseURL is the identity service root (e.g. http://localhost:8080)
	BaseURL string

	// ForceLocal skips the network entirely and serves every
	// operation from the local substitute
	ForceLocal bool

	// Timeout bounds each remote call; zero means the default
	Timeout time.Duration
}

// Resilient wraps each identity operation in a two-tier call: the real
// backend first, the local substitute whenever the backend is
// unreachable, answers 5xx, or returns an unusable payload. Callers
// never see an error for those conditions, only a result tagged
// SourceLocal.
type Resilient struct {
	remote *remote
	local  *Local
	logger *slog.Logger

	forceLocal bool
}

// Ensure Resilient implements the interface
var _ Gateway = (*Resilient)(nil)

// NewResilient creates the two-tier gateway
func NewResilient(cfg Config, local *Local, logger *slog.Logger) *Resilient {
	g := &Resilient{
		local:      local,
		logger:     logger,
		forceLocal: cfg.ForceLocal || cfg.BaseURL == "",
	}
	if !g.forceLocal {
		g.remote = newRemote(cfg.BaseURL, cfg.Timeout)
	}
	return g
}

// Login authenticates against the backend, falling back locally
func (g *Resilient) Login(ctx context.Context, email, password string) AuthResult {
	if g.forceLocal {
		return g.local.Login(ctx, email, password)
	}
	result, err := g.remote.login(ctx, email, password)
	if err != nil {
		g.fallback("login", err)
		return g.local.Login(ctx, email, password)
	}
	return result
}

// Register creates an account on the backend, falling back locally
func (g *Resilient) Register(ctx context.Context, params RegisterParams) AuthResult {
	if g.forceLocal {
		return g.local.Register(ctx, params)
	}
	result, err := g.remote.register(ctx, params)
	if err != nil {
		g.fallback("register", err)
		return g.local.Register(ctx, params)
	}
	return result
}

// Logout invalidates the token on the backend, falling back locally
func (g *Resilient) Logout(ctx context.Context, token string) Result {
	if g.forceLocal {
		return g.local.Logout(ctx, token)
	}
	result, err := g.remote.logout(ctx, token)
	if err != nil {
		g.fallback("logout", err)
		return g.local.Logout(ctx, token)
	}
	return result
}

// FetchProfile resolves the token's identity, falling back locally
func (g *Resilient) FetchProfile(ctx context.Context, token string) ProfileResult {
	if g.forceLocal {
		return g.local.FetchProfile(ctx, token)
	}
	result, err := g.remote.fetchProfile(ctx, token)
	if err != nil {
		g.fallback("fetch_profile", err)
		return g.local.FetchProfile(ctx, token)
	}
	return result
}

// UpdateProfile applies a partial update, falling back locally
func (g *Resilient) UpdateProfile(ctx context.Context, token string, update model.ProfileUpdate) ProfileResult {
	if g.forceLocal {
		return g.local.UpdateProfile(ctx, token, update)
	}
	result, err := g.remote.updateProfile(ctx, token, update)
	if err != nil {
		g.fallback("update_profile", err)
		return g.local.UpdateProfile(ctx, token, update)
	}
	return result
}

func (g *Resilient) fallback(operation string, err error) {
	g.logger.Warn("identity backend unavailable, using local substitute",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
