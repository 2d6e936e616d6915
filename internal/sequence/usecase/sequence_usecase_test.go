package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sampletrack/internal/database"
	apperrors "github.com/allisson/sampletrack/internal/errors"
	sequenceDomain "github.com/allisson/sampletrack/internal/sequence/domain"
	sequenceRepository "github.com/allisson/sampletrack/internal/sequence/repository"
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

// mockCounterRepository is a mock implementation of CounterRepository for testing.
type mockCounterRepository struct {
	mock.Mock
}

func (m *mockCounterRepository) AtomicIncrement(
	ctx context.Context,
	name string,
	period sequenceDomain.Period,
) (*sequenceDomain.Counter, error) {
	args := m.Called(ctx, name, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sequenceDomain.Counter), args.Error(1)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSequenceUseCase_Next(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)
	period := sequenceDomain.Period{Year: 2026, Month: 10}

	t.Run("Success_IncrementsCurrentPeriod", func(t *testing.T) {
		txManager := &MockTxManager{}
		repo := &mockCounterRepository{}

		expected := &sequenceDomain.Counter{
			Name:         sequenceDomain.AuditCounterName,
			CurrentValue: 7,
			PeriodMonth:  10,
			PeriodYear:   2026,
		}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("AtomicIncrement", ctx, sequenceDomain.AuditCounterName, period).Return(expected, nil).Once()

		useCase := NewSequenceUseCase(txManager, repo, fixedClock(now))
		counter, err := useCase.Next(ctx, sequenceDomain.AuditCounterName)

		require.NoError(t, err)
		assert.Equal(t, expected, counter)
		txManager.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("Success_PeriodComputedInUTC", func(t *testing.T) {
		txManager := &MockTxManager{}
		repo := &mockCounterRepository{}

		// 2026-03-31 22:00 in UTC-3 is already April in UTC.
		local := time.Date(2026, time.March, 31, 22, 0, 0, 0, time.FixedZone("BRT", -3*60*60))
		april := sequenceDomain.Period{Year: 2026, Month: 4}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("AtomicIncrement", ctx, "auditId", april).
			Return(&sequenceDomain.Counter{Name: "auditId", CurrentValue: 1, PeriodMonth: 4, PeriodYear: 2026}, nil).
			Once()

		useCase := NewSequenceUseCase(txManager, repo, fixedClock(local))
		counter, err := useCase.Next(ctx, "auditId")

		require.NoError(t, err)
		assert.Equal(t, april, counter.Period())
		repo.AssertExpectations(t)
	})

	t.Run("Error_InvalidName", func(t *testing.T) {
		txManager := &MockTxManager{}
		repo := &mockCounterRepository{}

		useCase := NewSequenceUseCase(txManager, repo, fixedClock(now))
		counter, err := useCase.Next(ctx, "  ")

		assert.Nil(t, counter)
		assert.ErrorIs(t, err, sequenceDomain.ErrInvalidCounterName)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})

	t.Run("Error_RepositoryFailureIsCounterPersistence", func(t *testing.T) {
		txManager := &MockTxManager{}
		repo := &mockCounterRepository{}
		dbErr := errors.New("connection refused")

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("AtomicIncrement", ctx, "auditId", period).Return(nil, dbErr).Once()

		useCase := NewSequenceUseCase(txManager, repo, fixedClock(now))
		counter, err := useCase.Next(ctx, "auditId")

		assert.Nil(t, counter)
		assert.ErrorIs(t, err, sequenceDomain.ErrCounterPersistence)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("Error_TransactionFailureIsCounterPersistence", func(t *testing.T) {
		txManager := &MockTxManager{}
		repo := &mockCounterRepository{}

		txManager.On("WithTx", ctx, mock.Anything).Return(errors.New("begin failed")).Once()

		useCase := NewSequenceUseCase(txManager, repo, fixedClock(now))
		counter, err := useCase.Next(ctx, "auditId")

		assert.Nil(t, counter)
		assert.ErrorIs(t, err, sequenceDomain.ErrCounterPersistence)
		repo.AssertNotCalled(t, "AtomicIncrement", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSequenceUseCase_Next_MemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ConcurrentCallsAreDistinctAndGapFree", func(t *testing.T) {
		now := time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)
		useCase := NewSequenceUseCase(
			database.NewNoopTxManager(),
			sequenceRepository.NewMemoryCounterRepository(),
			fixedClock(now),
		)

		const n = 100
		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			values = make(map[int64]int)
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				counter, err := useCase.Next(ctx, "auditId")
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				values[counter.CurrentValue]++
				mu.Unlock()
			}()
		}
		wg.Wait()

		require.Len(t, values, n)
		for v := int64(1); v <= n; v++ {
			assert.Equal(t, 1, values[v], "value %d", v)
		}
	})

	t.Run("Success_RolloverResetsToOne", func(t *testing.T) {
		current := time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC)
		var mu sync.Mutex
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return current
		}
		useCase := NewSequenceUseCase(
			database.NewNoopTxManager(),
			sequenceRepository.NewMemoryCounterRepository(),
			clock,
		)

		for i := 1; i <= 4; i++ {
			counter, err := useCase.Next(ctx, "auditId")
			require.NoError(t, err)
			assert.Equal(t, int64(i), counter.CurrentValue)
		}

		mu.Lock()
		current = time.Date(2026, time.April, 1, 0, 1, 0, 0, time.UTC)
		mu.Unlock()

		counter, err := useCase.Next(ctx, "auditId")
		require.NoError(t, err)
		assert.Equal(t, int64(1), counter.CurrentValue)
		assert.Equal(t, 4, counter.PeriodMonth)
		assert.Equal(t, "audit-001", sequenceDomain.FormatIdentifier("audit", counter, false))
	})
}
