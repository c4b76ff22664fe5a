package smsprovider

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

// MockSMSProvider accepts every send without any network call. Useful for
// local runs without provider credentials and for tests that count sends.
type MockSMSProvider struct {
	logger    *slog.Logger
	sendCount atomic.Int64

	// FailSends makes every Send return an unsuccessful response.
	FailSends bool
}

func NewMockSMSProvider(logger *slog.Logger) *MockSMSProvider {
	return &MockSMSProvider{logger: logger.With("provider", "mock")}
}

func (p *MockSMSProvider) Send(ctx context.Context, request SMSRequestData) (*SMSResponseData, error) {
	p.sendCount.Add(1)

	if p.FailSends {
		return &SMSResponseData{
			Success:      false,
			StatusCode:   500,
			ErrorMessage: "mock provider configured to fail",
			ProviderName: p.GetName(),
		}, nil
	}

	p.logger.InfoContext(ctx, "Mock provider accepted SMS",
		"sender", request.SenderID,
		"recipient", request.Recipient,
	)
	return &SMSResponseData{
		ProviderMessageID: uuid.NewString(),
		Success:           true,
		StatusCode:        200,
		ProviderName:      p.GetName(),
	}, nil
}

// SendCount returns how many sends were attempted.
func (p *MockSMSProvider) SendCount() int64 {
	return p.sendCount.Load()
}

func (p *MockSMSProvider) GetName() string {
	return "mock"
}
