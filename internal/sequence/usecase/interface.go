// Package usecase defines business logic interfaces for period-scoped sequence counters.
package usecase

import (
	"context"

	sequenceDomain "github.com/allisson/sampletrack/internal/sequence/domain"
)

// CounterRepository defines persistence operations for sequence counters.
type CounterRepository interface {
	// AtomicIncrement advances the named counter for the given period in a single
	// atomic step and returns the resulting state. A missing counter is created
	// with value 1; a counter stored under another period is reset to 1.
	AtomicIncrement(
		ctx context.Context,
		name string,
		period sequenceDomain.Period,
	) (*sequenceDomain.Counter, error)
}

// SequenceUseCase mints strictly increasing, period-scoped sequence numbers.
type SequenceUseCase interface {
	// Next returns the next value of the named counter. Concurrent callers always
	// observe distinct values. Returns ErrCounterPersistence if the increment
	// could not be stored.
	Next(ctx context.Context, name string) (*sequenceDomain.Counter, error)
}
