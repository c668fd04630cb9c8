package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode bool `env:"TEST_MODE"`
	Port       uint `env:"PORT" envDefault:"8080"`

	Secret string `env:"SECRET,required"`

	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`
	RabbitmqURL   string `env:"RABBITMQ_URL,required"`

	RabbitmqCredentialEventsExchange string `env:"RABBITMQ_CREDENTIAL_EVENTS_EXCHANGE" envDefault:"credential-events"`
	RabbitmqCredentialRotatedQueue   string `env:"RABBITMQ_CREDENTIAL_ROTATED_QUEUE" envDefault:"credential-rotated"`

	BcryptHasherCost                  int `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordResetValidDurationMinutes int `env:"PASSWORD_RESET_VALID_DURATION_MINUTES" envDefault:"5"`

	AwsRegion                     string  `env:"AWS_REGION" envDefault:"us-east-1"`
	AwsAccessKey                  string  `env:"AWS_ACCESS_KEY,required"`
	AwsSecretKey                  string  `env:"AWS_SECRET_KEY,required"`
	AwsEmailSender                string  `env:"AWS_EMAIL_SENDER,required"`
	AwsEmailPasswordResetTemplate string  `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE,required"`
	AwsEmailPasswordResetBaseUrl  url.URL `env:"AWS_EMAIL_PASSWORD_RESET_BASE_URL,required"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	SentryDsn *url.URL `env:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	return config, nil
}
