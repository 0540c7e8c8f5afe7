package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mkelsey/devportal/internal/dependencies/mocks"
	"github.com/mkelsey/devportal/internal/model"
	"github.com/mkelsey/devportal/internal/session/token"
)

type LocalSuite struct {
	suite.Suite
	clock *mocks.MockClock
	codec *token.Codec
	local *Local
	ctx   context.Context
}

func TestLocalSuite(t *testing.T) {
	suite.Run(t, new(LocalSuite))
}

func (s *LocalSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.codec = token.NewCodec(s.clock)
	s.local = NewLocal(s.clock, s.codec)
	s.ctx = context.Background()
}

func (s *LocalSuite) TestLoginFabricatesIdentityFromEmail() {
	result := s.local.Login(s.ctx, "alice@example.com", "pw")

	s.True(result.Success)
	s.Equal(SourceLocal, result.Source)
	s.Require().NotNil(result.Identity)
	s.Equal("alice", result.Identity.Username)
	s.Equal("alice@example.com", result.Identity.Email)
	s.Equal(model.RoleDeveloper, result.Identity.Role)
	s.NotEmpty(result.Identity.ID)
}

func (s *LocalSuite) TestLoginSeededDemoAccount() {
	result := s.local.Login(s.ctx, "admin@devportal.local", "anything")

	s.True(result.Success)
	s.Equal(model.RoleAdmin, result.Identity.Role)
	s.Equal("admin", result.Identity.Username)
	s.Equal(model.IdentityID("demo-admin"), result.Identity.ID)
}

func (s *LocalSuite) TestLoginTokenIsDecodableAndUnexpired() {
	result := s.local.Login(s.ctx, "alice@example.com", "pw")

	s.False(s.codec.IsExpired(result.Token))

	claims, err := s.codec.Decode(result.Token)
	s.Require().NoError(err)
	s.Equal("alice", claims.Username)
	s.Equal(model.RoleDeveloper, claims.Role)
	s.Require().NotNil(claims.ExpiresAt)
	s.Equal(s.clock.Now().Add(localTokenTTL).Unix(), claims.ExpiresAt.Unix())
}

func (s *LocalSuite) TestRegisterUsesGivenFields() {
	result := s.local.Register(s.ctx, RegisterParams{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "pw",
		Role:     model.RoleContentManager,
	})

	s.True(result.Success)
	s.Equal("bob", result.Identity.Username)
	s.Equal(model.RoleContentManager, result.Identity.Role)
	s.NotEmpty(result.Token)
}

func (s *LocalSuite) TestRegisterDefaultsInvalidRoleToDeveloper() {
	result := s.local.Register(s.ctx, RegisterParams{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "pw",
		Role:     "superuser",
	})

	s.Equal(model.RoleDeveloper, result.Identity.Role)
}

func (s *LocalSuite) TestFetchProfileRebuildsIdentityFromToken() {
	login := s.local.Login(s.ctx, "alice@example.com", "pw")

	profile := s.local.FetchProfile(s.ctx, login.Token)
	s.True(profile.Success)
	s.Equal(login.Identity.ID, profile.Identity.ID)
	s.Equal("alice", profile.Identity.Username)
	s.Equal(model.RoleDeveloper, profile.Identity.Role)
}

func (s *LocalSuite) TestFetchProfileWithGarbageTokenStillAnswers() {
	profile := s.local.FetchProfile(s.ctx, "garbage")

	s.True(profile.Success)
	s.Require().NotNil(profile.Identity)
	s.NotEmpty(profile.Identity.Username)
}

func (s *LocalSuite) TestUpdateProfileMergesFields() {
	login := s.local.Login(s.ctx, "alice@example.com", "pw")

	newName := "alice-renamed"
	result := s.local.UpdateProfile(s.ctx, login.Token, model.ProfileUpdate{Username: &newName})

	s.True(result.Success)
	s.Equal("alice-renamed", result.Identity.Username)
	s.Equal(login.Identity.ID, result.Identity.ID)
}

func (s *LocalSuite) TestFavoritesSurviveAcrossCalls() {
	login := s.local.Login(s.ctx, "alice@example.com", "pw")

	favorites := model.Favorites{}
	favorites.Add(model.FavoriteProjects, "proj-1")
	updated := s.local.UpdateProfile(s.ctx, login.Token, model.ProfileUpdate{Favorites: favorites})
	s.True(updated.Identity.Favorites.Has(model.FavoriteProjects, "proj-1"))

	profile := s.local.FetchProfile(s.ctx, login.Token)
	s.True(profile.Identity.Favorites.Has(model.FavoriteProjects, "proj-1"))
}

func (s *LocalSuite) TestLogoutAlwaysSucceeds() {
	result := s.local.Logout(s.ctx, "whatever")
	s.True(result.Success)
	s.Equal(SourceLocal, result.Source)
}
