// Package mocks provides mock implementations of notification interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	notificationDomain "github.com/allisson/sampletrack/internal/notification/domain"
)

// MockDispatchUseCase is a mock implementation of DispatchUseCase for testing.
type MockDispatchUseCase struct {
	mock.Mock
}

// Dispatch mocks the Dispatch method of DispatchUseCase.
func (m *MockDispatchUseCase) Dispatch(
	ctx context.Context,
	clientID uuid.UUID,
	payload *notificationDomain.Payload,
) (*notificationDomain.DispatchResult, error) {
	args := m.Called(ctx, clientID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notificationDomain.DispatchResult), args.Error(1)
}

// MockGateway is a mock implementation of Gateway for testing.
type MockGateway struct {
	mock.Mock
}

// Send mocks the Send method of Gateway.
func (m *MockGateway) Send(
	ctx context.Context,
	token string,
	payload *notificationDomain.Payload,
) (notificationDomain.DeliveryOutcome, error) {
	args := m.Called(ctx, token, payload)
	return args.Get(0).(notificationDomain.DeliveryOutcome), args.Error(1)
}
