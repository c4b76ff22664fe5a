package smsprovider

import "context"

// SMSRequestData holds the data for sending one SMS via a provider.
type SMSRequestData struct {
	SenderID  string
	Recipient string
	Content   string
}

// SMSResponseData holds the outcome of a send attempt.
type SMSResponseData struct {
	ProviderMessageID string
	Success           bool // true only on a confirmed-success provider status
	StatusCode        int
	ErrorMessage      string
	ProviderName      string
}

// Adapter is the interface an SMS provider adapter implements.
type Adapter interface {
	Send(ctx context.Context, request SMSRequestData) (*SMSResponseData, error)
	GetName() string
}
