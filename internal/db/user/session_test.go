package user

import (
	"context"
	"errors"
	c "taskhive/internal/core/domain/common"
	"taskhive/internal/core/domain/user"
	"taskhive/internal/db"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	SESSION_TOKEN = "test-session-token"
)

type testSessionSuite struct {
	suite.Suite
	pool              *pgxpool.Pool
	userRepository    *PgxUserRepository
	sessionRepository *PgxSessionRepository
}

func (suite *testSessionSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	suite.userRepository = NewPgxRepository(suite.pool)
	suite.sessionRepository = NewPgxSessionRepository(suite.pool)
}

func (suite *testSessionSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSessionSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxSessionRepository(t *testing.T) {
	suite.Run(t, new(testSessionSuite))
}

func (s *testSessionSuite) TestGetUserByToken() {
	u := s.createUserWithSession()

	found, err := s.sessionRepository.GetUserByToken(context.Background(), user.SessionToken(SESSION_TOKEN))
	s.Nil(err)
	s.Equal(u.ID, found.ID)
	s.Equal(u.Email, found.Email)
	s.Equal(u.PasswordHash, found.PasswordHash)
}

func (s *testSessionSuite) TestGetUserByTokenReturnsErrorIfTokenIsUnknown() {
	s.createUserWithSession()

	_, err := s.sessionRepository.GetUserByToken(context.Background(), user.SessionToken("unknown-token"))
	s.True(errors.Is(err, user.ErrUserDoesNotExist))
}

func (s *testSessionSuite) createUserWithSession() user.User {
	s.T().Helper()
	u, err := s.userRepository.Create(
		context.Background(),
		user.CreateUserInput{
			Email:        c.NewEmail(EMAIL),
			PasswordHash: user.PasswordHash(PASSWORD_HASH),
			FirstName:    "Test",
			LastName:     "Test",
			CreatedAt:    NOW,
		},
	)
	if err != nil {
		s.FailNowf("could not create user", "err: %v", err)
	}
	_, err = s.pool.Exec(
		context.Background(),
		`INSERT INTO sessions (user_id, token, created_at) VALUES ($1, $2, $3)`,
		int64(u.ID),
		SESSION_TOKEN,
		NOW,
	)
	if err != nil {
		s.FailNowf("could not create session", "err: %v", err)
	}
	return u
}
