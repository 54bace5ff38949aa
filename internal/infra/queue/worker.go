package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/outreachd/outreach/internal/usecase"
)

var errMalformedMessage = errors.New("malformed campaign run message")

type CampaignRunner interface {
	Execute(ctx context.Context, input usecase.RunCampaignInput) (*usecase.RunReport, error)
}

// Worker executes queued send runs one at a time. Prefetch is 1 so two runs
// never deliver concurrently.
type Worker struct {
	Channel *amqp.Channel
	Runner  CampaignRunner
	Logger  *slog.Logger
}

func NewWorker(ch *amqp.Channel, runner CampaignRunner, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{Channel: ch, Runner: runner, Logger: logger}
}

// Start consumes until ctx is done or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	if err := w.Channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.Info("[WORKER] waiting for campaign runs", "queue", queueName)

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("[WORKER] stopping")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

// handle acks a well-formed run before executing it. A run can outlast the
// broker's ack timeout, and a redelivered run is safe anyway since the ledger
// skips contacts that were already sent.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	w.Logger.Info("📥 [WORKER] campaign run received", "message_id", d.MessageId)

	msg, err := decodeMessage(d.Body)
	if err != nil {
		w.Logger.Error("❌ [WORKER] campaign run rejected", "message_id", d.MessageId, "error", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)

	report, err := w.processMessage(ctx, msg)
	if err != nil {
		w.Logger.Error("❌ [WORKER] campaign run failed", "run_id", msg.RunID, "error", err)
		return
	}

	w.Logger.Info("✅ [WORKER] campaign run finished",
		"run_id", msg.RunID, "sent", report.Sent, "failed", report.Failed, "cancelled", report.Cancelled)
}

func decodeMessage(body []byte) (CampaignRunMessage, error) {
	var msg CampaignRunMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, fmt.Errorf("%w: %v", errMalformedMessage, err)
	}
	if msg.TenantID == "" {
		return msg, fmt.Errorf("%w: tenant_id is required", errMalformedMessage)
	}
	return msg, nil
}

// processMessage executes the run. Queued runs are always send-mode runs.
func (w *Worker) processMessage(ctx context.Context, msg CampaignRunMessage) (*usecase.RunReport, error) {
	w.Logger.Info("⚙️ [WORKER] executing campaign run", "run_id", msg.RunID, "tenant_id", msg.TenantID, "limit", msg.Limit)

	return w.Runner.Execute(ctx, usecase.RunCampaignInput{
		TenantID:    msg.TenantID,
		Mode:        usecase.ModeSend,
		Limit:       msg.Limit,
		EmailFilter: msg.EmailFilter,
		TemplateID:  msg.TemplateID,
	})
}
