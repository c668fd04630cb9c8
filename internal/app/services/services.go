package services

import (
	"taskhive/internal/app/deps"
	drl "taskhive/internal/core/domain/rate_limiter"
	"taskhive/internal/core/services"
	"taskhive/internal/core/services/auth"
	changepassword "taskhive/internal/core/services/change_password"
	ratelimiting "taskhive/internal/core/services/rate_limiting"
	resetpassword "taskhive/internal/core/services/reset_password"
	sendpasswordresettoken "taskhive/internal/core/services/send_password_reset_token"
)

type Services struct {
	SendPasswordResetToken services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	ResetPassword          services.Service[resetpassword.Input, resetpassword.Result]
	ChangePassword         services.Service[changepassword.Input, changepassword.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SendPasswordResetToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 3},
		sendpasswordresettoken.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordResetter,
			deps.PasswordResetTokenSender,
		),
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordResetter,
		deps.PasswordHasher,
		deps.CredentialEventPublisher,
		deps.Now,
	)
	s.ChangePassword = auth.WithAuthentication(
		deps.SessionRepository,
		ratelimiting.WithRateLimiting(
			deps.Logger,
			deps.RateLimiter,
			drl.Limit{Interval: drl.Hour, Value: 10},
			changepassword.New(
				deps.Logger,
				deps.UserRepository,
				deps.PasswordHasher,
				deps.CredentialEventPublisher,
				deps.Now,
			),
		),
	)

	return s
}
