package sendpasswordresettoken

import (
	"context"
	c "taskhive/internal/core/domain/common"
	"taskhive/internal/core/domain/logging"
	"taskhive/internal/core/domain/user"
	"taskhive/internal/core/services"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	USER_ID = 123
	EMAIL   = "test@test.test"
	TOKEN   = "test-password-reset-token"
)

type suite struct {
	log      *logging.FakeLogger
	userRepo *user.FakeUserRepository
	resetter *user.FakePasswordResetter
	sender   *user.FakePasswordResetTokenSender
}

func setupSuite() *suite {
	s := &suite{
		log:      logging.NewFakeLogger(),
		userRepo: user.NewFakeUserRepository(),
		resetter: user.NewFakePasswordResetter(TOKEN, USER_ID, true, true),
		sender:   user.NewFakePasswordResetTokenSender(),
	}
	s.userRepo.Users = []user.User{{ID: USER_ID, Email: c.Email(EMAIL)}}
	return s
}

func (s *suite) createService() services.Service[Input, Result] {
	return New(s.log, s.userRepo, s.resetter, s.sender)
}

func TestTokenSentToKnownEmail(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Email: c.Email(EMAIL)})

	// Verify ---
	require.NoError(t, err)
	require.Equal(t, user.PasswordResetToken(TOKEN), result.Token)

	require.Equal(t, 1, suite.sender.SentCount())
	sent := suite.sender.LastSent()
	require.Equal(t, user.ID(USER_ID), sent.User.ID)
	require.Equal(t, user.PasswordResetToken(TOKEN), sent.Token)
}

func TestUnknownEmailSuppressed(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Email: c.Email("unknown@test.test")})

	// Verify ---
	// The response is indistinguishable from the success case.
	require.NoError(t, err)
	require.Equal(t, user.PasswordResetToken(""), result.Token)
	require.Equal(t, 0, suite.sender.SentCount())
}

func TestTokenGenerationError(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	suite.resetter.ReturnError = true
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{Email: c.Email(EMAIL)})

	// Verify ---
	require.Error(t, err)
	require.Equal(t, 0, suite.sender.SentCount())
}

func TestSenderError(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	suite.sender.ReturnError = true
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{Email: c.Email(EMAIL)})

	// Verify ---
	require.Error(t, err)
	require.Equal(t, 0, suite.sender.SentCount())
}

func TestRateLimitKeyIncludesEmail(t *testing.T) {
	input := Input{Email: c.Email(EMAIL)}
	require.Equal(t, "send-password-reset-token::"+EMAIL, input.GetRateLimitKey())
}
