package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CampaignRunMessage asks the worker to execute one send-mode run.
type CampaignRunMessage struct {
	RunID       string    `json:"run_id"`
	TenantID    string    `json:"tenant_id"`
	Limit       int       `json:"limit"`
	EmailFilter string    `json:"email,omitempty"`
	TemplateID  string    `json:"template_id,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

type CampaignRunPublisher interface {
	PublishCampaignRun(ctx context.Context, msg CampaignRunMessage) (string, error)
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	ch publisher
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{ch: ch}
}

// PublishCampaignRun enqueues the run and returns its ID.
func (p *RabbitMQProducer) PublishCampaignRun(ctx context.Context, msg CampaignRunMessage) (string, error) {
	if msg.RunID == "" {
		msg.RunID = uuid.New().String()
	}
	if msg.RequestedAt.IsZero() {
		msg.RequestedAt = time.Now().UTC()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal campaign run: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			Body:          body,
			DeliveryMode:  amqp.Persistent,
			MessageId:     msg.RunID,
			CorrelationId: msg.TenantID,
			Timestamp:     msg.RequestedAt,
		},
	)
	if err != nil {
		return "", fmt.Errorf("publish campaign run: %w", err)
	}
	return msg.RunID, nil
}
