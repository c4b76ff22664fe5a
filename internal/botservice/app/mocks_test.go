package app

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/replysms/botservice/internal/botservice/adapters/intent"
	"github.com/replysms/botservice/internal/botservice/adapters/smsprovider"
	"github.com/replysms/botservice/internal/botservice/domain"
)

// --- Shared mocks for app package tests ---

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Get(ctx context.Context, number string) (*domain.NumberRecord, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NumberRecord), args.Error(1)
}

func (m *MockRecordRepository) Merge(ctx context.Context, number string, patch domain.RecordPatch) error {
	args := m.Called(ctx, number, patch)
	return args.Error(0)
}

func (m *MockRecordRepository) MarkCouponIssued(ctx context.Context, number string, at time.Time) (bool, error) {
	args := m.Called(ctx, number, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) List(ctx context.Context, limit int) ([]domain.NumberRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NumberRecord), args.Error(1)
}

type MockMessageLogRepository struct {
	mock.Mock
}

func (m *MockMessageLogRepository) Append(ctx context.Context, msg *domain.InboundMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageLogRepository) List(ctx context.Context, limit int) ([]domain.InboundMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InboundMessage), args.Error(1)
}

type MockIdentityLookup struct {
	mock.Mock
}

func (m *MockIdentityLookup) Lookup(ctx context.Context, number string) (*domain.CallerIdentity, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CallerIdentity), args.Error(1)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text, sessionID string) (*intent.Classification, error) {
	args := m.Called(ctx, text, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*intent.Classification), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Push(ctx context.Context, message, number string) error {
	args := m.Called(ctx, message, number)
	return args.Error(0)
}

type MockSMSAdapter struct {
	mock.Mock
}

func (m *MockSMSAdapter) Send(ctx context.Context, request smsprovider.SMSRequestData) (*smsprovider.SMSResponseData, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*smsprovider.SMSResponseData), args.Error(1)
}

func (m *MockSMSAdapter) GetName() string {
	return "mock"
}
