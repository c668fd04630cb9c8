package sendpasswordresettoken

import (
	"context"
	"errors"
	"fmt"
	c "taskhive/internal/core/domain/common"
	e "taskhive/internal/core/domain/errors"
	"taskhive/internal/core/domain/logging"
	"taskhive/internal/core/domain/user"
	"taskhive/internal/core/services"
)

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return fmt.Sprintf("send-password-reset-token::%s", i.Email)
}

type Result struct {
	// Token is only surfaced to the HTTP layer in test mode.
	Token user.PasswordResetToken
}

type service struct {
	log              logging.Logger
	userRepository   user.UserRepository
	passwordResetter user.PasswordResetter
	tokenSender      user.PasswordResetTokenSender
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordResetter user.PasswordResetter,
	tokenSender user.PasswordResetTokenSender,
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
	if tokenSender == nil {
		panic(e.NewNilArgumentError("tokenSender"))
	}
	return &service{
		log:              log,
		userRepository:   userRepository,
		passwordResetter: passwordResetter,
		tokenSender:      tokenSender,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.userRepository.GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// The caller must not learn whether the address is registered,
		// respond exactly as in the success case.
		s.log.Info(
			ctx,
			"Password reset requested for unknown email, request suppressed.",
			logging.Entry("email", input.Email),
		)
		return result, nil
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("email", input.Email))
		return result, err
	}

	token, err := s.passwordResetter.GenerateToken(u)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	if err := s.tokenSender.SendToken(ctx, u, token); err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Password reset token has been sent.",
		logging.Entry("userID", u.ID),
	)
	return Result{Token: token}, nil
}
