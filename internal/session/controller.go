// Package session owns the portal's session state: which identity is
// logged in, which credential backs it, and the lifecycle between the
// two. The Controller is the single writer of that state; everything
// else in the application reads it through the Controller's methods.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mkelsey/devportal/internal/model"
	"github.com/mkelsey/devportal/internal/session/credential"
	"github.com/mkelsey/devportal/internal/session/gateway"
	"github.com/mkelsey/devportal/internal/session/token"
)

// State is the controller's main lifecycle state
type State string

// Lifecycle states
const (
	StateUninitialized State = "uninitialized"
	StateResolving     State = "resolving"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// Controller orchestrates the credential codec, credential store, and
// backend gateway. An Identity is held in memory iff a valid,
// non-expired token is held; the identity itself is never persisted,
// only re-derived from the token at startup.
//
// Mutating operations are stamped with an issuance sequence number;
// a completion may only write state if no operation issued later has
// already written. That keeps out-of-order completions (a slow login
// finishing after a logout) from resurrecting a superseded session.
type Controller struct {
	gateway gateway.Gateway
	creds   credential.Store
	codec   *token.Codec
	logger  *slog.Logger

	mu       sync.Mutex
	state    State
	identity *model.Identity
	token    string
	source   gateway.Source
	inFlight int
	issued   uint64
	applied  uint64
}

// NewController creates a controller in the Uninitialized state.
// Call Init to resolve any persisted credential.
func NewController(gw gateway.Gateway, creds credential.Store, codec *token.Codec, logger *slog.Logger) *Controller {
	return &Controller{
		gateway: gw,
		creds:   creds,
		codec:   codec,
		logger:  logger,
		state:   StateUninitialized,
	}
}

// Init resolves a persisted token into a session. A missing, expired,
// or unresolvable token yields the Anonymous state with the store
// cleared; a resolvable one yields Authenticated.
func (c *Controller) Init(ctx context.Context) {
	seq := c.begin()
	defer c.finish()

	c.mu.Lock()
	c.state = StateResolving
	c.mu.Unlock()

	stored, ok := c.creds.Load()
	if !ok {
		c.apply(seq, func() {
			c.clearSessionLocked()
		})
		return
	}

	if c.codec.IsExpired(stored) {
		c.logger.Info("stored token expired, starting anonymous")
		c.apply(seq, func() {
			c.creds.Clear()
			c.clearSessionLocked()
		})
		return
	}

	result := c.gateway.FetchProfile(ctx, stored)
	if !result.Success {
		c.logger.Warn("stored token could not be resolved, starting anonymous",
			slog.String("message", result.Message))
		c.apply(seq, func() {
			c.creds.Clear()
			c.clearSessionLocked()
		})
		return
	}

	c.apply(seq, func() {
		c.state = StateAuthenticated
		c.identity = result.Identity
		c.token = stored
		c.source = result.Source
	})
}

// Login authenticates with the backend and, on success, persists the
// token and adopts the returned identity. The message is empty on
// success and user-presentable on failure. Login never returns an
// error: backend unavailability is absorbed by the gateway.
func (c *Controller) Login(ctx context.Context, email, password string) (bool, string) {
	seq := c.begin()
	defer c.finish()

	result := c.gateway.Login(ctx, email, password)
	if !result.Success {
		c.logger.Info("login rejected", slog.String("email", email))
		return false, result.Message
	}

	applied := c.apply(seq, func() {
		c.adoptLocked(result.Identity, result.Token, result.Source)
	})
	if !applied {
		// A newer operation (typically logout) already decided the
		// session's fate; do not resurrect this one.
		return false, "session superseded"
	}

	c.logger.Info("logged in",
		slog.String("user", string(result.Identity.ID)),
		slog.String("source", string(result.Source)),
	)
	return true, ""
}

// Register creates a new account and adopts it as the current session
// (self-registration). Use CreateAccount to provision an account for
// someone else without touching the current session.
func (c *Controller) Register(ctx context.Context, params gateway.RegisterParams) (bool, string) {
	seq := c.begin()
	defer c.finish()

	result := c.gateway.Register(ctx, params)
	if !result.Success {
		return false, result.Message
	}

	applied := c.apply(seq, func() {
		c.adoptLocked(result.Identity, result.Token, result.Source)
	})
	if !applied {
		return false, "session superseded"
	}

	c.logger.Info("registered",
		slog.String("user", string(result.Identity.ID)),
		slog.String("source", string(result.Source)),
	)
	return true, ""
}

// CreateAccount provisions a new account on behalf of someone else.
// The current session is left untouched regardless of outcome.
func (c *Controller) CreateAccount(ctx context.Context, params gateway.RegisterParams) (bool, string) {
	c.begin()
	defer c.finish()

	result := c.gateway.Register(ctx, params)
	if !result.Success {
		return false, result.Message
	}

	c.logger.Info("account created",
		slog.String("user", string(result.Identity.ID)),
		slog.String("source", string(result.Source)),
	)
	return true, ""
}

// Logout clears the session. Local state and the credential store are
// cleared unconditionally and immediately; remote invalidation is
// best-effort and its outcome is ignored.
func (c *Controller) Logout(ctx context.Context) {
	seq := c.begin()
	defer c.finish()

	c.mu.Lock()
	held := c.token
	c.mu.Unlock()

	c.apply(seq, func() {
		c.creds.Clear()
		c.clearSessionLocked()
	})

	if held != "" {
		if result := c.gateway.Logout(ctx, held); !result.Success {
			c.logger.Warn("remote logout failed, local session cleared anyway",
				slog.String("message", result.Message))
		}
	}

	c.logger.Info("logged out")
}

// Profile refreshes the identity using the current token, falling
// back to the persisted one when memory holds none. On failure it
// returns nil and leaves existing state untouched: a failed refresh
// mid-session is not a reason to log out.
func (c *Controller) Profile(ctx context.Context) *model.Identity {
	seq := c.begin()
	defer c.finish()

	c.mu.Lock()
	current := c.token
	c.mu.Unlock()

	if current == "" {
		stored, ok := c.creds.Load()
		if !ok {
			return nil
		}
		current = stored
	}

	result := c.gateway.FetchProfile(ctx, current)
	if !result.Success {
		c.logger.Warn("profile refresh failed", slog.String("message", result.Message))
		return nil
	}

	applied := c.apply(seq, func() {
		c.state = StateAuthenticated
		c.identity = result.Identity
		c.token = current
		c.source = result.Source
	})
	if !applied {
		// A newer operation already decided the session's fate; do not
		// hand out an identity it discarded
		return nil
	}
	return result.Identity.Clone()
}

// UpdateProfile merges a partial update into the current identity.
// It requires a held token and returns false without side effects
// when there is none or when the backend rejects the update.
func (c *Controller) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (bool, string) {
	seq := c.begin()
	defer c.finish()

	c.mu.Lock()
	held := c.token
	c.mu.Unlock()

	if held == "" {
		return false, "not logged in"
	}

	result := c.gateway.UpdateProfile(ctx, held, update)
	if !result.Success {
		return false, result.Message
	}

	applied := c.apply(seq, func() {
		c.identity = result.Identity
		c.source = result.Source
	})
	if !applied {
		return false, "session superseded"
	}
	return true, ""
}

// HasPermission reports whether the current identity's role is one of
// the required roles. It is a pure read: no identity means false.
func (c *Controller) HasPermission(required ...model.Role) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.identity == nil {
		return false
	}
	for _, role := range required {
		if c.identity.Role == role {
			return true
		}
	}
	return false
}

// Identity returns a copy of the current identity, or nil when anonymous
func (c *Controller) Identity() *model.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity.Clone()
}

// Token returns the currently held token, empty when anonymous
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// State returns the main lifecycle state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsAuthenticated reports whether an identity is currently held
func (c *Controller) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateAuthenticated && c.identity != nil
}

// IsLoading reports whether any operation is in flight
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0
}

// Source reports which gateway path produced the current session, so
// callers can surface demo mode instead of mistaking it for a real
// backend session
func (c *Controller) Source() gateway.Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// begin stamps a new operation and raises the busy flag
func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight++
	c.issued++
	return c.issued
}

// finish lowers the busy flag; every begin has a matching finish
func (c *Controller) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
}

// apply runs fn under the lock iff no operation issued after seq has
// already written state. Returns whether the write happened.
func (c *Controller) apply(seq uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		return false
	}
	c.applied = seq
	fn()
	return true
}

// adoptLocked installs a new identity/token pairing; callers hold c.mu
func (c *Controller) adoptLocked(identity *model.Identity, tok string, source gateway.Source) {
	c.state = StateAuthenticated
	c.identity = identity
	c.token = tok
	c.source = source
	c.creds.Save(tok)
}

// clearSessionLocked nulls the session; callers hold c.mu
func (c *Controller) clearSessionLocked() {
	c.state = StateAnonymous
	c.identity = nil
	c.token = ""
	c.source = ""
}
