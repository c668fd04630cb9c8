package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists        = errors.New("email already exists")
	ErrUserDoesNotExist          = errors.New("user does not exist")
	ErrInvalidCredentials        = errors.New("current password incorrect")
	ErrPasswordUnchanged         = errors.New("password unchanged")
	ErrInvalidPasswordResetToken = errors.New("invalid or expired password reset token")

	// ErrCredentialConflict means a concurrent password rotation won the race,
	// the hash this flow verified against is no longer the stored one.
	ErrCredentialConflict = errors.New("password was changed concurrently")
)
