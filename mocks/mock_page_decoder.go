package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockPageDecoder is a mock implementation of port.PageDecoder.
type MockPageDecoder struct {
	mock.Mock
}

func (m *MockPageDecoder) DecodePages(data []byte) ([]string, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
