package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vitalis/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendReportReady(ctx context.Context, report *domain.LabReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockEmailSender) SendReportFailed(ctx context.Context, report *domain.LabReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
