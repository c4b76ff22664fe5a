package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/replysms/botservice/internal/botservice/domain"
)

// Schema (see migrations):
//
//	CREATE TABLE inbound_messages (
//	    id           UUID PRIMARY KEY,
//	    text_content TEXT NOT NULL,
//	    from_number  TEXT NOT NULL,
//	    to_number    TEXT NOT NULL,
//	    received_at  TIMESTAMPTZ NOT NULL
//	);
//
// "text" is a reserved-ish word, so the column is text_content.
type PgMessageLogRepository struct {
	db     DBPool
	logger *slog.Logger
}

func NewPgMessageLogRepository(db DBPool, logger *slog.Logger) domain.MessageLogRepository {
	return &PgMessageLogRepository{db: db, logger: logger.With("component", "message_log_repository_pg")}
}

func (r *PgMessageLogRepository) Append(ctx context.Context, msg *domain.InboundMessage) error {
	query := `
		INSERT INTO inbound_messages (id, text_content, from_number, to_number, received_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, msg.ID, msg.Text, msg.From, msg.To, msg.ReceivedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error appending inbound message", "message_id", msg.ID, "error", err)
		return fmt.Errorf("appending inbound message %s: %w", msg.ID, err)
	}

	r.logger.DebugContext(ctx, "Appended inbound message", "message_id", msg.ID, "from", msg.From, "to", msg.To)
	return nil
}

func (r *PgMessageLogRepository) List(ctx context.Context, limit int) ([]domain.InboundMessage, error) {
	query := `
		SELECT id, text_content, from_number, to_number, received_at
		FROM inbound_messages
		ORDER BY received_at ASC, id ASC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing inbound messages", "error", err)
		return nil, fmt.Errorf("listing inbound messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.InboundMessage
	for rows.Next() {
		var msg domain.InboundMessage
		if err := rows.Scan(&msg.ID, &msg.Text, &msg.From, &msg.To, &msg.ReceivedAt); err != nil {
			return nil, fmt.Errorf("listing inbound messages: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing inbound messages: %w", err)
	}
	return messages, nil
}
