// Package mocks provides mock implementations of device registry interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	deviceDomain "github.com/allisson/sampletrack/internal/device/domain"
)

// MockDeviceUseCase is a mock implementation of DeviceUseCase for testing.
type MockDeviceUseCase struct {
	mock.Mock
}

// Register mocks the Register method of DeviceUseCase.
func (m *MockDeviceUseCase) Register(
	ctx context.Context,
	input *deviceDomain.RegisterDeviceInput,
) (*deviceDomain.DeviceRegistration, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deviceDomain.DeviceRegistration), args.Error(1)
}

// ListActive mocks the ListActive method of DeviceUseCase.
func (m *MockDeviceUseCase) ListActive(
	ctx context.Context,
	clientID uuid.UUID,
) ([]*deviceDomain.DeviceRegistration, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deviceDomain.DeviceRegistration), args.Error(1)
}

// Deactivate mocks the Deactivate method of DeviceUseCase.
func (m *MockDeviceUseCase) Deactivate(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
