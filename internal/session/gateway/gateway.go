package gateway

import (
	"context"

	"github.com/mkelsey/devportal/internal/model"
)

// Source records which path produced a result, so a fallback answer is
// distinguishable from a genuine backend response
type Source string

// Result sources
const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// RegisterParams are the inputs for account registration
type RegisterParams struct {
	Username string
	Email    string
	Password string
	Role     model.Role
}

// AuthResult is returned by Login and Register
type AuthResult struct {
	Success  bool
	Identity *model.Identity
	Token    string
	Message  string
	Source   Source
}

// ProfileResult is returned by FetchProfile and UpdateProfile
type ProfileResult struct {
	Success  bool
	Identity *model.Identity
	Message  string
	Source   Source
}

// Result is returned by operations with no payload
type Result struct {
	Success bool
	Message string
	Source  Source
}

// Gateway provides a uniform contract for every identity operation.
//
// Implementations never return Go errors for expected failure modes:
// a rejected credential pair is Success=false with a message, and an
// unreachable or misbehaving backend is answered by the local
// substitute. Callers cannot tell the difference except via Source.
// The gateway performs network I/O only; session state and credential
// persistence belong to the caller.
type Gateway interface {
	Login(ctx context.Context, email, password string) AuthResult
	Register(ctx context.Context, params RegisterParams) AuthResult
	Logout(ctx context.Context, token string) Result
	FetchProfile(ctx context.Context, token string) ProfileResult
	UpdateProfile(ctx context.Context, token string, update model.ProfileUpdate) ProfileResult
}
