// Package mocks provides mock implementations of sequence interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	sequenceDomain "github.com/allisson/sampletrack/internal/sequence/domain"
)

// MockSequenceUseCase is a mock implementation of SequenceUseCase for testing.
type MockSequenceUseCase struct {
	mock.Mock
}

// Next mocks the Next method of SequenceUseCase.
func (m *MockSequenceUseCase) Next(ctx context.Context, name string) (*sequenceDomain.Counter, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sequenceDomain.Counter), args.Error(1)
}
