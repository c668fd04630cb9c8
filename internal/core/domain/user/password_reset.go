package user

import "context"

type PasswordResetToken string

// PasswordResetter issues and verifies the signed bearer tokens used by the
// password reset flow. A token is bound to the password hash it was issued
// against, so rotating the password invalidates all outstanding tokens.
type PasswordResetter interface {
	GenerateToken(user User) (PasswordResetToken, error)
	GetUserID(token PasswordResetToken) (ID, bool)
	ValidateToken(user User, token PasswordResetToken) bool
}

type PasswordResetTokenSender interface {
	SendToken(ctx context.Context, user User, token PasswordResetToken) error
}
