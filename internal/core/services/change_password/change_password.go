package changepassword

import (
	"context"
	"errors"
	"fmt"
	e "taskhive/internal/core/domain/errors"
	"taskhive/internal/core/domain/logging"
	"taskhive/internal/core/domain/user"
	"taskhive/internal/core/services"
	"taskhive/internal/core/services/auth"
	"time"
)

type Input struct {
	CurrentPassword user.RawPassword
	NewPassword     user.RawPassword
	User            user.User
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.User = u
	return i
}

func (i Input) GetRateLimitKey() string {
	return fmt.Sprintf("change-password::%d", i.User.ID)
}

type Result struct{}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	passwordHasher user.PasswordHasher
	eventPublisher user.CredentialEventPublisher
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
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
		log:            log,
		userRepository: userRepository,
		passwordHasher: passwordHasher,
		eventPublisher: eventPublisher,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	isCurrentPasswordValid := s.passwordHasher.ValidatePassword(
		input.CurrentPassword,
		input.User.PasswordHash,
	)
	if !isCurrentPasswordValid {
		return result, user.ErrInvalidCredentials
	}
	if s.passwordHasher.ValidatePassword(input.NewPassword, input.User.PasswordHash) {
		return result, user.ErrPasswordUnchanged
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID))
		return result, err
	}
	err = s.userRepository.SetPassword(ctx, user.SetPasswordInput{
		UserID:      input.User.ID,
		CurrentHash: input.User.PasswordHash,
		NewHash:     newPasswordHash,
	})
	if errors.Is(err, user.ErrCredentialConflict) {
		s.log.Warning(
			ctx,
			"Password change lost the race to a concurrent rotation.",
			logging.Entry("userID", input.User.ID),
		)
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID))
		return result, err
	}

	s.publishRotation(ctx, input.User.ID)

	s.log.Info(
		ctx,
		"Password has been successfully changed.",
		logging.Entry("userID", input.User.ID),
	)
	return Result{}, nil
}

func (s *service) publishRotation(ctx context.Context, userID user.ID) {
	err := s.eventPublisher.PublishRotation(ctx, user.CredentialRotation{
		UserID:    userID,
		Cause:     user.RotationCauseChange,
		RotatedAt: s.now(),
	})
	if err != nil {
		s.log.Error(
			ctx,
			"Could not publish credential rotation event.",
			logging.Entry("userID", userID),
			logging.Entry("err", err),
		)
	}
}
