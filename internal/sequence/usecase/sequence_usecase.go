// Package usecase implements business logic orchestration for sequence counters.
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/allisson/sampletrack/internal/database"
	apperrors "github.com/allisson/sampletrack/internal/errors"
	sequenceDomain "github.com/allisson/sampletrack/internal/sequence/domain"
)

// sequenceUseCase implements SequenceUseCase.
type sequenceUseCase struct {
	txManager   database.TxManager
	counterRepo CounterRepository
	now         func() time.Time
}

// Next computes the current period from the clock and delegates the
// read-modify-write to the repository's atomic increment.
func (s *sequenceUseCase) Next(ctx context.Context, name string) (*sequenceDomain.Counter, error) {
	if strings.TrimSpace(name) == "" {
		return nil, sequenceDomain.ErrInvalidCounterName
	}

	period := sequenceDomain.PeriodOf(s.now())

	var counter *sequenceDomain.Counter
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		counter, err = s.counterRepo.AtomicIncrement(ctx, name, period)
		return err
	})
	if err != nil {
		return nil, apperrors.Join(sequenceDomain.ErrCounterPersistence, err)
	}

	return counter, nil
}

// NewSequenceUseCase creates a new SequenceUseCase with the provided dependencies.
// A nil clock defaults to time.Now.
func NewSequenceUseCase(
	txManager database.TxManager,
	counterRepo CounterRepository,
	now func() time.Time,
) SequenceUseCase {
	if now == nil {
		now = time.Now
	}
	return &sequenceUseCase{
		txManager:   txManager,
		counterRepo: counterRepo,
		now:         now,
	}
}
