package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkelsey/devportal/internal/dependencies/clock"
	"github.com/mkelsey/devportal/internal/model"
)

// ErrMalformed is returned when a token's payload cannot be decoded
var ErrMalformed = errors.New("malformed token")

// Claims is the decoded payload of a session token
type Claims struct {
	Subject  string
	Username string
	Email    string
	Role     model.Role

	// ExpiresAt is nil when the token carries no expiry claim,
	// meaning it never expires
	ExpiresAt *time.Time
}

// Codec interprets session token strings. It only decodes the payload
// segment; cryptographic verification is the identity service's job.
type Codec struct {
	clock clock.Clock
}

// NewCodec creates a codec using the given clock for expiry checks
func NewCodec(clk clock.Clock) *Codec {
	return &Codec{clock: clk}
}

// Decode extracts the claims from a three-segment token without
// verifying its signature
func (c *Codec) Decode(raw string) (*Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, ErrMalformed
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformed
	}

	claims := &Claims{
		Subject:  stringClaim(mapClaims, "sub"),
		Username: stringClaim(mapClaims, "username"),
		Email:    stringClaim(mapClaims, "email"),
		Role:     model.Role(stringClaim(mapClaims, "role")),
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		// An exp claim that exists but isn't a timestamp
		return nil, ErrMalformed
	}
	if exp != nil {
		t := exp.Time
		claims.ExpiresAt = &t
	}

	return claims, nil
}

// IsExpired reports whether the token should be treated as expired.
// A token that cannot be decoded is always expired (fail safe); a
// decodable token without an expiry claim never expires.
func (c *Codec) IsExpired(raw string) bool {
	claims, err := c.Decode(raw)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(c.clock.Now())
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
