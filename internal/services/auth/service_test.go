package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jordanjustice/gotcha-api/internal/dependencies/mocks"
	"github.com/jordanjustice/gotcha-api/internal/model"
	"github.com/jordanjustice/gotcha-api/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, DefaultConfig())
	s.ctx = context.Background()
}

func (s *ServiceSuite) register(name, email, password string) *Session {
	s.random.QueueString(name)
	session, err := s.service.RegisterPlayer(s.ctx, name, email, password)
	s.Require().NoError(err)
	return session
}

// RegisterPlayer tests

func (s *ServiceSuite) TestRegisterPlayerSucceeds() {
	s.random.QueueString("alice")
	session, err := s.service.RegisterPlayer(s.ctx, "Alice", "alice@example.com", "secret-pass")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal(model.PlayerID("p_alice"), session.PlayerID)
	s.Equal("Alice", session.Player.Name)
	s.Equal("alice@example.com", session.Player.EmailAddress)
}

func (s *ServiceSuite) TestRegisterPlayerPersistsPlayerAndCredentials() {
	session := s.register("Alice", "alice@example.com", "secret-pass")

	player, err := s.storage.GetPlayer(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.Equal("Alice", player.Name)

	creds, err := s.storage.GetCredentialsByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(session.PlayerID, creds.PlayerID)
	s.NotEqual("secret-pass", creds.PasswordHash)
}

func (s *ServiceSuite) TestRegisterPlayerFailsIfEmailExists() {
	s.register("Alice", "alice@example.com", "secret-pass")

	s.random.QueueString("imposter")
	_, err := s.service.RegisterPlayer(s.ctx, "Imposter", "alice@example.com", "other-pass")
	s.ErrorIs(err, model.ErrEmailExists)
}

func (s *ServiceSuite) TestRegisterPlayerEmailUniquenessIgnoresCase() {
	s.register("Alice", "alice@example.com", "secret-pass")

	s.random.QueueString("imposter")
	_, err := s.service.RegisterPlayer(s.ctx, "Imposter", "ALICE@example.com", "other-pass")
	s.ErrorIs(err, model.ErrEmailExists)
}

func (s *ServiceSuite) TestRegisterPlayerRequiresName() {
	_, err := s.service.RegisterPlayer(s.ctx, "", "alice@example.com", "secret-pass")
	s.ErrorIs(err, ErrNameRequired)
}

func (s *ServiceSuite) TestRegisterPlayerRequiresPassword() {
	_, err := s.service.RegisterPlayer(s.ctx, "Alice", "alice@example.com", "")
	s.ErrorIs(err, ErrPasswordRequired)
}

func (s *ServiceSuite) TestRegisterPlayerRejectsMalformedEmail() {
	for _, email := range []string{"", "alice", "alice@", "@example.com", "alice@example", "a b@example.com"} {
		_, err := s.service.RegisterPlayer(s.ctx, "Alice", email, "secret-pass")
		s.ErrorIs(err, model.ErrInvalidEmail, "email: %q", email)
	}
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered := s.register("Alice", "alice@example.com", "secret-pass")

	session, err := s.service.Login(s.ctx, "alice@example.com", "secret-pass")
	s.Require().NoError(err)
	s.Equal(registered.PlayerID, session.PlayerID)
	s.NotEqual(registered.Token, session.Token)
}

func (s *ServiceSuite) TestLoginEmailIgnoresCase() {
	registered := s.register("Alice", "alice@example.com", "secret-pass")

	session, err := s.service.Login(s.ctx, "Alice@Example.COM", "secret-pass")
	s.Require().NoError(err)
	s.Equal(registered.PlayerID, session.PlayerID)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	s.register("Alice", "alice@example.com", "secret-pass")

	_, err := s.service.Login(s.ctx, "alice@example.com", "wrong-pass")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownEmail() {
	_, err := s.service.Login(s.ctx, "nobody@example.com", "secret-pass")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Session tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session := s.register("Alice", "alice@example.com", "secret-pass")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.PlayerID, validated.PlayerID)
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidToken() {
	_, err := s.service.ValidateSession("sess_bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session := s.register("Alice", "alice@example.com", "secret-pass")

	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionRemovesSession() {
	session := s.register("Alice", "alice@example.com", "secret-pass")

	s.service.InvalidateSession(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionNoopForUnknownToken() {
	s.service.InvalidateSession("sess_bogus")
}

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesExpired() {
	expired := s.register("Alice", "alice@example.com", "secret-pass")

	s.clock.Advance(25 * time.Hour)
	fresh, err := s.service.Login(s.ctx, "alice@example.com", "secret-pass")
	s.Require().NoError(err)

	s.service.CleanExpiredSessions()

	_, err = s.service.ValidateSession(expired.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}
