package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vitalis/internal/port"
)

// MockInvoker is a mock implementation of extract.Invoker.
type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) Invoke(ctx context.Context, req port.ModelRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
