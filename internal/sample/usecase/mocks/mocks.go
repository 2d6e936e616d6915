// Package mocks provides mock implementations of sample interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
)

// MockSampleUseCase is a mock implementation of SampleUseCase for testing.
type MockSampleUseCase struct {
	mock.Mock
}

// Create mocks the Create method of SampleUseCase.
func (m *MockSampleUseCase) Create(
	ctx context.Context,
	input *sampleDomain.CreateSampleInput,
) (*sampleDomain.Sample, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sampleDomain.Sample), args.Error(1)
}

// Get mocks the Get method of SampleUseCase.
func (m *MockSampleUseCase) Get(ctx context.Context, id uuid.UUID) (*sampleDomain.Sample, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sampleDomain.Sample), args.Error(1)
}

// MockTransitionUseCase is a mock implementation of TransitionUseCase for testing.
type MockTransitionUseCase struct {
	mock.Mock
}

// Apply mocks the Apply method of TransitionUseCase.
func (m *MockTransitionUseCase) Apply(
	ctx context.Context,
	sampleID uuid.UUID,
	requested sampleDomain.Status,
	actor sampleDomain.Actor,
) (*sampleDomain.StatusTransitionEvent, error) {
	args := m.Called(ctx, sampleID, requested, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sampleDomain.StatusTransitionEvent), args.Error(1)
}

// MockStatusUseCase is a mock implementation of StatusUseCase for testing.
type MockStatusUseCase struct {
	mock.Mock
}

// ChangeStatus mocks the ChangeStatus method of StatusUseCase.
func (m *MockStatusUseCase) ChangeStatus(
	ctx context.Context,
	input *sampleDomain.ChangeStatusInput,
) (*sampleDomain.OrchestrationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sampleDomain.OrchestrationResult), args.Error(1)
}

// MockClientDirectory is a mock implementation of ClientDirectory for testing.
type MockClientDirectory struct {
	mock.Mock
}

// ResolveClientID mocks the ResolveClientID method of ClientDirectory.
func (m *MockClientDirectory) ResolveClientID(ctx context.Context, sampleID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, sampleID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
