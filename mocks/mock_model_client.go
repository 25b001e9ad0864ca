package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vitalis/internal/port"
)

// MockModelClient is a mock implementation of port.ModelClient.
type MockModelClient struct {
	mock.Mock
}

func (m *MockModelClient) Invoke(ctx context.Context, model string, req port.ModelRequest) (string, error) {
	args := m.Called(ctx, model, req)
	return args.String(0), args.Error(1)
}
