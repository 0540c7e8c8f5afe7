package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mkelsey/devportal/internal/dependencies/mocks"
	"github.com/mkelsey/devportal/internal/model"
	"github.com/mkelsey/devportal/internal/session/token"
	"github.com/mkelsey/devportal/internal/testutil"
)

type ResilientSuite struct {
	suite.Suite
	clock *mocks.MockClock
	codec *token.Codec
	local *Local
	ctx   context.Context
}

func TestResilientSuite(t *testing.T) {
	suite.Run(t, new(ResilientSuite))
}

func (s *ResilientSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.codec = token.NewCodec(s.clock)
	s.local = NewLocal(s.clock, s.codec)
	s.ctx = context.Background()
}

func (s *ResilientSuite) gatewayFor(handler http.Handler) (*Resilient, *httptest.Server) {
	server := httptest.NewServer(handler)
	s.T().Cleanup(server.Close)

	g := NewResilient(Config{BaseURL: server.URL}, s.local, testutil.NopLogger())
	return g, server
}

func (s *ResilientSuite) TestForcedLocalSkipsNetwork() {
	g := NewResilient(Config{ForceLocal: true}, s.local, testutil.NopLogger())

	result := g.Login(s.ctx, "alice@example.com", "pw")
	s.True(result.Success)
	s.Equal(SourceLocal, result.Source)
	s.Equal("alice", result.Identity.Username)
}

func (s *ResilientSuite) TestEmptyBaseURLMeansLocal() {
	g := NewResilient(Config{}, s.local, testutil.NopLogger())

	result := g.FetchProfile(s.ctx, "anything")
	s.True(result.Success)
	s.Equal(SourceLocal, result.Source)
}

func (s *ResilientSuite) TestRemoteLoginSuccess() {
	g, _ := s.gatewayFor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("/auth/login", r.URL.Path)

		var req map[string]string
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
		s.Equal("alice@example.com", req["email"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"user": map[string]any{
					"id":       "u-1",
					"username": "alice",
					"email":    "alice@example.com",
					"role":     "developer",
				},
				"token": "remote-token",
			},
		})
	}))

	result := g.Login(s.ctx, "alice@example.com", "pw")
	s.True(result.Success)
	s.Equal(SourceRemote, result.Source)
	s.Equal("remote-token", result.Token)
	s.Equal(model.IdentityID("u-1"), result.Identity.ID)
}

func (s *ResilientSuite) TestRejectionIsNotAFault() {
	g, _ := s.gatewayFor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))

	result := g.Login(s.ctx, "alice@example.com", "wrong")
	s.False(result.Success)
	s.Equal(SourceRemote, result.Source)
	s.Equal("invalid credentials", result.Message)
}

func (s *ResilientSuite) TestUnreachableBackendFallsBack() {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused from here on

	g := NewResilient(Config{BaseURL: server.URL}, s.local, testutil.NopLogger())

	result := g.Login(s.ctx, "alice@example.com", "pw")
	s.True(result.Success)
	s.Equal(SourceLocal, result.Source)
	s.Equal("alice", result.Identity.Username)
	s.Equal(model.RoleDeveloper, result.Identity.Role)
}

func (s *ResilientSuite) TestServerErrorFallsBack() {
	g, _ := s.gatewayFor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	result := g.Login(s.ctx, "alice@example.com", "pw")
	s.True(result.Success)
	s.Equal(SourceLocal, result.Source)
}

func (s *ResilientSuite) TestNonJSONBodyFallsBack() {
	g, _ := s.gatewayFor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	}))

	result := g.FetchProfile(s.ctx, "tok")
	s.True(result.Success)
	s.Equal(SourceLocal, result.Source)
}

func (s *ResilientSuite) TestWrongShapedPayloadFallsBack() {
	g, _ := s.gatewayFor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// 200 but no data envelope
		_ = json.NewEncoder(w).Encode(map[string]string{"unexpected": "shape"})
	}))

	result := g.Login(s.ctx, "alice@example.com", "pw")
	s.True(result.Success)
	s.Equal(SourceLocal, result.Source)
}

func (s *ResilientSuite) TestRemoteProfileRoundTrip() {
	g, _ := s.gatewayFor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Bearer tok-1", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/auth/me":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"id": "u-1", "username": "alice", "email": "a@b.c", "role": "admin",
				},
			})
		case "/auth/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))

	profile := g.FetchProfile(s.ctx, "tok-1")
	s.True(profile.Success)
	s.Equal(SourceRemote, profile.Source)
	s.Equal(model.RoleAdmin, profile.Identity.Role)

	logout := g.Logout(s.ctx, "tok-1")
	s.True(logout.Success)
	s.Equal(SourceRemote, logout.Source)
}
