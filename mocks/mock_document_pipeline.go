package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vitalis/internal/extract"
)

// MockDocumentPipeline is a mock implementation of service.DocumentPipeline.
type MockDocumentPipeline struct {
	mock.Mock
}

func (m *MockDocumentPipeline) Run(ctx context.Context, input extract.DocumentInput, progress extract.ProgressFunc) (*extract.Extraction, error) {
	args := m.Called(ctx, input, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extract.Extraction), args.Error(1)
}
