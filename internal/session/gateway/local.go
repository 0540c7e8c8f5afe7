package gateway

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mkelsey/devportal/internal/dependencies/clock"
	"github.com/mkelsey/devportal/internal/model"
	"github.com/mkelsey/devportal/internal/session/token"
)

// localSigningKey signs tokens minted by the local substitute. It is
// not a secret: local tokens grant nothing outside this process.
const localSigningKey = "devportal-local-substitute"

// localTokenTTL bounds the lifetime of locally minted tokens
const localTokenTTL = 24 * time.Hour

// Local is the deterministic stand-in for the identity service. It
// answers every operation with a well-formed result so the portal
// keeps working in disconnected or demo deployments: unknown logins
// get a fabricated identity derived from the email, and profile reads
// are rebuilt from the token's own claims.
type Local struct {
	clock clock.Clock
	codec *token.Codec

	mu        sync.Mutex
	favorites map[model.IdentityID]model.Favorites
}

// Ensure Local implements the interface
var _ Gateway = (*Local)(nil)

// NewLocal creates the local substitute
func NewLocal(clk clock.Clock, codec *token.Codec) *Local {
	return &Local{
		clock:     clk,
		codec:     codec,
		favorites: make(map[model.IdentityID]model.Favorites),
	}
}

// demoAccounts are the seeded identities for local development
var demoAccounts = map[string]model.Identity{
	"admin@devportal.local": {
		ID:       "demo-admin",
		Username: "admin",
		Email:    "admin@devportal.local",
		Role:     model.RoleAdmin,
	},
	"content@devportal.local": {
		ID:       "demo-content",
		Username: "content",
		Email:    "content@devportal.local",
		Role:     model.RoleContentManager,
	},
	"dev@devportal.local": {
		ID:       "demo-dev",
		Username: "dev",
		Email:    "dev@devportal.local",
		Role:     model.RoleDeveloper,
	},
}

// Login always succeeds: seeded demo emails resolve to their seeded
// identity, anything else fabricates a developer account on the spot
func (l *Local) Login(ctx context.Context, email, password string) AuthResult {
	identity := l.identityForEmail(email)
	return AuthResult{
		Success:  true,
		Identity: identity,
		Token:    l.mint(identity),
		Source:   SourceLocal,
	}
}

// Register creates an identity from the given parameters
func (l *Local) Register(ctx context.Context, params RegisterParams) AuthResult {
	role := params.Role
	if !model.ValidRole(role) {
		role = model.RoleDeveloper
	}
	username := params.Username
	if username == "" {
		username = emailLocalPart(params.Email)
	}

	identity := &model.Identity{
		ID:        model.IdentityID(uuid.NewString()),
		Username:  username,
		Email:     params.Email,
		Role:      role,
		Favorites: model.Favorites{},
	}

	return AuthResult{
		Success:  true,
		Identity: identity,
		Token:    l.mint(identity),
		Source:   SourceLocal,
	}
}

// Logout has nothing to invalidate locally
func (l *Local) Logout(ctx context.Context, tok string) Result {
	return Result{Success: true, Source: SourceLocal}
}

// FetchProfile rebuilds the identity from the token claims
func (l *Local) FetchProfile(ctx context.Context, tok string) ProfileResult {
	identity := l.identityForToken(tok)
	return ProfileResult{Success: true, Identity: identity, Source: SourceLocal}
}

// UpdateProfile merges the update into the claims-derived identity.
// Favorites are remembered for the lifetime of the process.
func (l *Local) UpdateProfile(ctx context.Context, tok string, update model.ProfileUpdate) ProfileResult {
	identity := l.identityForToken(tok)
	update.Apply(identity)

	l.mu.Lock()
	l.favorites[identity.ID] = identity.Favorites.Clone()
	l.mu.Unlock()

	return ProfileResult{Success: true, Identity: identity, Source: SourceLocal}
}

func (l *Local) identityForEmail(email string) *model.Identity {
	if seeded, ok := demoAccounts[strings.ToLower(email)]; ok {
		identity := seeded
		l.attachFavorites(&identity)
		return &identity
	}

	identity := &model.Identity{
		ID:        model.IdentityID(uuid.NewString()),
		Username:  emailLocalPart(email),
		Email:     email,
		Role:      model.RoleDeveloper,
		Favorites: model.Favorites{},
	}
	return identity
}

func (l *Local) identityForToken(tok string) *model.Identity {
	claims, err := l.codec.Decode(tok)
	if err != nil || claims.Subject == "" {
		// Undecodable bearer: still answer with a usable identity
		identity := demoAccounts["dev@devportal.local"]
		l.attachFavorites(&identity)
		return &identity
	}

	role := claims.Role
	if !model.ValidRole(role) {
		role = model.RoleDeveloper
	}
	username := claims.Username
	if username == "" {
		username = emailLocalPart(claims.Email)
	}

	identity := &model.Identity{
		ID:       model.IdentityID(claims.Subject),
		Username: username,
		Email:    claims.Email,
		Role:     role,
	}
	l.attachFavorites(identity)
	return identity
}

func (l *Local) attachFavorites(identity *model.Identity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if favorites, ok := l.favorites[identity.ID]; ok {
		identity.Favorites = favorites.Clone()
	} else {
		identity.Favorites = model.Favorites{}
	}
}

func (l *Local) mint(identity *model.Identity) string {
	now := l.clock.Now()
	claims := jwt.MapClaims{
		"sub":      string(identity.ID),
		"username": identity.Username,
		"email":    identity.Email,
		"role":     string(identity.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(localTokenTTL).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(localSigningKey))
	if err != nil {
		// HS256 signing of map claims cannot fail at runtime
		return ""
	}
	return signed
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
