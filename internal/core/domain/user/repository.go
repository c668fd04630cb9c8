package user

import (
	"context"
	c "taskhive/internal/core/domain/common"
	"time"
)

type CreateUserInput struct {
	Email        c.Email
	PasswordHash PasswordHash
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

// SetPasswordInput carries the hash the calling flow verified against.
// The update applies only while that hash is still the stored one.
type SetPasswordInput struct {
	UserID      ID
	CurrentHash PasswordHash
	NewHash     PasswordHash
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	// SetPassword returns ErrUserDoesNotExist if the user is gone and
	// ErrCredentialConflict if the stored hash no longer matches CurrentHash.
	SetPassword(ctx context.Context, input SetPasswordInput) error
}

type SessionRepository interface {
	GetUserByToken(ctx context.Context, token SessionToken) (User, error)
}
