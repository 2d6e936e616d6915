package domain

import (
	"github.com/allisson/sampletrack/internal/errors"
)

// Sequence errors.
var (
	// ErrCounterPersistence indicates the atomic increment could not be persisted.
	ErrCounterPersistence = errors.Wrap(errors.ErrUnavailable, "counter persistence failure")

	// ErrInvalidCounterName indicates an empty counter name.
	ErrInvalidCounterName = errors.Wrap(errors.ErrInvalidInput, "counter name is required")
)
