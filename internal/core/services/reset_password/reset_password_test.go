package resetpassword

import (
	"context"
	"taskhive/internal/core/domain/logging"
	"taskhive/internal/core/domain/user"
	"taskhive/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	USER_ID = 123
	TOKEN   = "test-password-reset-token"
)

var NOW = time.Date(2023, 4, 15, 12, 0, 0, 0, time.UTC)

type suite struct {
	log       *logging.FakeLogger
	userRepo  *user.FakeUserRepository
	resetter  *user.FakePasswordResetter
	hasher    *user.FakePasswordHasher
	publisher *user.FakeCredentialEventPublisher
}

func setupSuite(currentPassword string) *suite {
	s := &suite{
		log:       logging.NewFakeLogger(),
		userRepo:  user.NewFakeUserRepository(),
		resetter:  user.NewFakePasswordResetter(TOKEN, USER_ID, true, true),
		hasher:    user.NewFakePasswordHasher(),
		publisher: user.NewFakeCredentialEventPublisher(),
	}
	s.userRepo.Users = []user.User{
		{ID: USER_ID, PasswordHash: hashPassword(currentPassword, s.hasher)},
	}
	return s
}

func (s *suite) createService() services.Service[Input, Result] {
	return New(s.log, s.userRepo, s.resetter, s.hasher, s.publisher, func() time.Time { return NOW })
}

func TestPasswordSuccessfullyReset(t *testing.T) {
	// Setup ---
	suite := setupSuite("old-password")
	service := suite.createService()

	// Exercise ---
	input := Input{Token: TOKEN, NewPassword: user.RawPassword("new-password")}
	_, err := service.Run(context.Background(), input)

	// Verify ---
	require.NoError(t, err)
	assertPasswordValid(t, suite, "new-password")

	require.Equal(t, 1, suite.publisher.PublishedCount())
	event := suite.publisher.Published[0]
	require.Equal(t, user.ID(USER_ID), event.UserID)
	require.Equal(t, user.RotationCauseReset, event.Cause)
	require.Equal(t, NOW, event.RotatedAt)
}

func TestUnparsableToken(t *testing.T) {
	// Setup ---
	suite := setupSuite("old-password")
	suite.resetter.IsUserIDValid = false
	service := suite.createService()

	// Exercise ---
	input := Input{Token: "garbage", NewPassword: user.RawPassword("new-password")}
	_, err := service.Run(context.Background(), input)

	// Verify ---
	require.ErrorIs(t, err, user.ErrInvalidPasswordResetToken)
	assertPasswordValid(t, suite, "old-password")
	require.Equal(t, 0, suite.publisher.PublishedCount())
}

func TestInvalidToken(t *testing.T) {
	// Setup ---
	// The token parses but fails verification, as an expired or already
	// used token would.
	suite := setupSuite("old-password")
	suite.resetter.IsValid = false
	service := suite.createService()

	// Exercise ---
	input := Input{Token: TOKEN, NewPassword: user.RawPassword("new-password")}
	_, err := service.Run(context.Background(), input)

	// Verify ---
	require.ErrorIs(t, err, user.ErrInvalidPasswordResetToken)
	assertPasswordValid(t, suite, "old-password")
	require.Equal(t, 0, suite.publisher.PublishedCount())
}

func TestUserDoesNotExist(t *testing.T) {
	// Setup ---
	suite := setupSuite("old-password")
	suite.userRepo.Users = nil
	service := suite.createService()

	// Exercise ---
	input := Input{Token: TOKEN, NewPassword: user.RawPassword("new-password")}
	_, err := service.Run(context.Background(), input)

	// Verify ---
	require.ErrorIs(t, err, user.ErrUserDoesNotExist)
	require.Equal(t, 0, suite.publisher.PublishedCount())
}

func TestPublisherErrorDoesNotFailReset(t *testing.T) {
	// Setup ---
	suite := setupSuite("old-password")
	suite.publisher.ReturnError = true
	service := suite.createService()

	// Exercise ---
	input := Input{Token: TOKEN, NewPassword: user.RawPassword("new-password")}
	_, err := service.Run(context.Background(), input)

	// Verify ---
	require.NoError(t, err)
	assertPasswordValid(t, suite, "new-password")
}

func hashPassword(raw string, hasher user.PasswordHasher) user.PasswordHash {
	hash, err := hasher.HashPassword(user.RawPassword(raw))
	if err != nil {
		panic(err)
	}
	return hash
}

func assertPasswordValid(t *testing.T, suite *suite, password string) {
	t.Helper()

	u, err := suite.userRepo.GetByID(context.Background(), USER_ID)
	require.NoError(t, err)

	isValid := suite.hasher.ValidatePassword(user.RawPassword(password), u.PasswordHash)
	require.True(t, isValid)
}
