package user

import (
	"context"
	"time"
)

type RotationCause string

const (
	RotationCauseChange RotationCause = "change"
	RotationCauseReset  RotationCause = "reset"
)

// CredentialRotation is published after a successful password change or reset
// so that sibling services can revoke the user's other active sessions.
type CredentialRotation struct {
	UserID    ID
	Cause     RotationCause
	RotatedAt time.Time
}

type CredentialEventPublisher interface {
	PublishRotation(ctx context.Context, event CredentialRotation) error
}
