package credentialevents

import (
	"context"
	"encoding/json"
	e "taskhive/internal/core/domain/errors"
	"taskhive/internal/core/domain/logging"
	"taskhive/internal/core/domain/user"
	"taskhive/internal/rabbitmq"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type rotationMessage struct {
	UserID    int64  `json:"user_id"`
	Cause     string `json:"cause"`
	RotatedAt string `json:"rotated_at"`
}

// RabbitMQ publishes credential rotation events. Consumers (the main
// application) revoke the user's other active sessions on receipt.
type RabbitMQ struct {
	log        logging.Logger
	channel    *rabbitmq.Channel
	exchange   string
	routingKey string
}

func NewRabbitMQ(log logging.Logger, channel *rabbitmq.Channel, exchange string, routingKey string) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange, routingKey: routingKey}
}

func (p *RabbitMQ) PublishRotation(ctx context.Context, event user.CredentialRotation) error {
	body, err := json.Marshal(rotationMessage{
		UserID:    int64(event.UserID),
		Cause:     string(event.Cause),
		RotatedAt: event.RotatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		logging.Error(ctx, p.log, err)
		return err
	}
	p.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", p.exchange),
		logging.Entry("RK", p.routingKey),
		logging.Entry("userID", event.UserID),
	)
	return nil
}
