package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vitalis/internal/domain"
	"vitalis/internal/service"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Upload(ctx context.Context, input service.UploadReportInput) (*domain.LabReport, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LabReport), args.Error(1)
}

func (m *MockReportService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LabReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LabReport), args.Error(1)
}

func (m *MockReportService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockReportService) List(ctx context.Context, offset, limit int) ([]domain.LabReport, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.LabReport), args.Int(1), args.Error(2)
}

func (m *MockReportService) Retry(ctx context.Context, id uuid.UUID) (*domain.LabReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LabReport), args.Error(1)
}

func (m *MockReportService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReportService) ProcessReport(ctx context.Context, report *domain.LabReport, maxAttempts int) {
	m.Called(ctx, report, maxAttempts)
}
