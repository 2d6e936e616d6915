package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
)

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// mockSampleRepository is a mock implementation of SampleRepository for testing.
type mockSampleRepository struct {
	mock.Mock
}

func (m *mockSampleRepository) Create(ctx context.Context, sample *sampleDomain.Sample) error {
	args := m.Called(ctx, sample)
	return args.Error(0)
}

func (m *mockSampleRepository) Get(ctx context.Context, id uuid.UUID) (*sampleDomain.Sample, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sampleDomain.Sample), args.Error(1)
}

func (m *mockSampleRepository) SaveWithVersionCheck(
	ctx context.Context,
	sample *sampleDomain.Sample,
	expectedVersion int64,
) error {
	args := m.Called(ctx, sample, expectedVersion)
	return args.Error(0)
}
