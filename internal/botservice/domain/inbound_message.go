package domain

import (
	"time"

	"github.com/google/uuid"
)

// InboundMessage is one entry of the append-only inbound log. Entries are
// never mutated or deleted, and no field is validated: an event with empty
// text or numbers is stored as-is.
type InboundMessage struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ReceivedAt time.Time `json:"received_at"`
}

// NewInboundMessage creates a log entry. The ID is generated by the caller so
// tests can assert on it.
func NewInboundMessage(id uuid.UUID, text, from, to string, receivedAt time.Time) *InboundMessage {
	return &InboundMessage{
		ID:         id,
		Text:       text,
		From:       from,
		To:         to,
		ReceivedAt: receivedAt,
	}
}
