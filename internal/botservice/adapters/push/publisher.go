package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/replysms/botservice/internal/platform/messagebroker"
)

// Publisher delivers bot replies to the outbound notification channel.
// Fire-and-forget: no delivery guarantee is surfaced back to callers beyond
// the publish itself succeeding.
type Publisher interface {
	Push(ctx context.Context, message, number string) error
}

// Notification is the payload published for each delivered message.
type Notification struct {
	Message string `json:"message"`
	Number  string `json:"number"`
}

// NATSPublisher publishes notifications to a NATS subject, where the web
// frontend (or any other consumer) picks them up.
type NATSPublisher struct {
	natsClient messagebroker.NATSClient
	subject    string
	logger     *slog.Logger
}

func NewNATSPublisher(natsClient messagebroker.NATSClient, subject string, logger *slog.Logger) *NATSPublisher {
	return &NATSPublisher{
		natsClient: natsClient,
		subject:    subject,
		logger:     logger.With("adapter", "push"),
	}
}

func (p *NATSPublisher) Push(ctx context.Context, message, number string) error {
	payload, err := json.Marshal(Notification{Message: message, Number: number})
	if err != nil {
		return fmt.Errorf("failed to marshal push notification: %w", err)
	}

	if err := p.natsClient.Publish(ctx, p.subject, payload); err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish notification", "error", err, "subject", p.subject, "number", number)
		return err
	}

	p.logger.DebugContext(ctx, "Published notification", "subject", p.subject, "number", number)
	return nil
}
