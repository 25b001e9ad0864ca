package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vitalis/internal/domain"
)

// MockLabReportRepo is a mock implementation of port.LabReportRepository.
type MockLabReportRepo struct {
	mock.Mock
}

func (m *MockLabReportRepo) Create(ctx context.Context, report *domain.LabReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockLabReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LabReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LabReport), args.Error(1)
}

func (m *MockLabReportRepo) List(ctx context.Context, offset, limit int) ([]domain.LabReport, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.LabReport), args.Int(1), args.Error(2)
}

func (m *MockLabReportRepo) Update(ctx context.Context, report *domain.LabReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockLabReportRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLabReportRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.LabReport, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LabReport), args.Error(1)
}
