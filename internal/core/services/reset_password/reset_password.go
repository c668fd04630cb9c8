package resetpassword

import (
	"context"
	"errors"
	e "taskhive/internal/core/domain/errors"
	"taskhive/internal/core/domain/logging"
	"taskhive/internal/core/domain/user"
	"taskhive/internal/core/services"
	"time"
)

type Input struct {
	Token       user.PasswordResetToken
	NewPassword user.RawPassword
}

type Result struct{}

type service struct {
	log              logging.Logger
	userRepository   user.UserRepository
	passwordResetter user.PasswordResetter
	passwordHasher   user.PasswordHasher
	eventPublisher   user.CredentialEventPublisher
	now              func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordResetter user.PasswordResetter,
	passwordHasher user.PasswordHasher,
	eventPublisher user.CredentialEventPublisher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordResetter == nil {
		panic(e.NewNilArgumentError("passwordResetter"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if eventPublisher == nil {
		panic(e.NewNilArgumentError("eventPublisher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:              log,
		userRepository:   userRepository,
		passwordResetter: passwordResetter,
		passwordHasher:   passwordHasher,
		eventPublisher:   eventPublisher,
		now:              now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	userID, ok := s.passwordResetter.GetUserID(input.Token)
	if !ok {
		return result, user.ErrInvalidPasswordResetToken
	}
	u, err := s.userRepository.GetByID(ctx, userID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "User not found for password reset.", logging.Entry("userID", userID))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("userID", userID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if !s.passwordResetter.ValidateToken(u, input.Token) {
		return result, user.ErrInvalidPasswordResetToken
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", userID))
		return result, err
	}
	err = s.userRepository.SetPassword(ctx, user.SetPasswordInput{
		UserID:      u.ID,
		CurrentHash: u.PasswordHash,
		NewHash:     newPasswordHash,
	})
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Could not update user password, user does not exist.", logging.Entry("userID", userID))
		return result, err
	}
	if errors.Is(err, user.ErrCredentialConflict) {
		s.log.Warning(
			ctx,
			"Password reset lost the race to a concurrent rotation.",
			logging.Entry("userID", userID),
		)
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userID", userID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.publishRotation(ctx, u.ID)

	s.log.Info(
		ctx,
		"New password has been successfully set.",
		logging.Entry("userID", userID),
	)
	return result, nil
}

func (s *service) publishRotation(ctx context.Context, userID user.ID) {
	err := s.eventPublisher.PublishRotation(ctx, user.CredentialRotation{
		UserID:    userID,
		Cause:     user.RotationCauseReset,
		RotatedAt: s.now(),
	})
	if err != nil {
		// The credential is already rotated, the event is best effort.
		s.log.Error(
			ctx,
			"Could not publish credential rotation event.",
			logging.Entry("userID", userID),
			logging.Entry("err", err),
		)
	}
}
