package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/replysms/botservice/internal/botservice/domain"
)

// MessageLogger appends every inbound event to the audit log. No dedup, no
// field validation: empty text or numbers are stored as-is.
type MessageLogger struct {
	log    domain.MessageLogRepository
	logger *slog.Logger
}

func NewMessageLogger(log domain.MessageLogRepository, logger *slog.Logger) *MessageLogger {
	return &MessageLogger{log: log, logger: logger.With("component", "message_logger")}
}

func (l *MessageLogger) Log(ctx context.Context, text, from, to string) {
	msg := domain.NewInboundMessage(uuid.New(), text, from, to, time.Now().UTC())
	if err := l.log.Append(ctx, msg); err != nil {
		l.logger.ErrorContext(ctx, "Failed to append inbound message to log", "error", err, "message_id", msg.ID)
	}
}
