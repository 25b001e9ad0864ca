package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vitalis/internal/domain"
)

// MockSensitivityRepo is a mock implementation of port.SensitivityRepository.
type MockSensitivityRepo struct {
	mock.Mock
}

func (m *MockSensitivityRepo) Upsert(ctx context.Context, records []domain.SensitivityRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockSensitivityRepo) List(ctx context.Context) ([]domain.SensitivityRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SensitivityRecord), args.Error(1)
}

// MockBiomarkerRepo is a mock implementation of port.BiomarkerRepository.
type MockBiomarkerRepo struct {
	mock.Mock
}

func (m *MockBiomarkerRepo) InsertBatch(ctx context.Context, records []domain.BiomarkerRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockBiomarkerRepo) List(ctx context.Context) ([]domain.BiomarkerRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BiomarkerRecord), args.Error(1)
}

func (m *MockBiomarkerRepo) ListByName(ctx context.Context, name string) ([]domain.BiomarkerRecord, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BiomarkerRecord), args.Error(1)
}
