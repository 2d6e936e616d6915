package domain

import (
	"github.com/allisson/sampletrack/internal/errors"
)

// Sample errors.
var (
	// ErrSampleNotFound indicates the sample does not exist.
	ErrSampleNotFound = errors.Wrap(errors.ErrNotFound, "sample not found")

	// ErrInvalidStatus indicates a status outside the lifecycle.
	ErrInvalidStatus = errors.Wrap(errors.ErrInvalidInput, "invalid sample status")

	// ErrInvalidTransition indicates the transition table does not allow the change.
	ErrInvalidTransition = errors.Wrap(errors.ErrInvalidInput, "invalid status transition")

	// ErrInvalidActor indicates a status change without an identified actor.
	ErrInvalidActor = errors.Wrap(errors.ErrInvalidInput, "actor id is required")

	// ErrConcurrencyConflict indicates the stored version no longer matches the expected one.
	ErrConcurrencyConflict = errors.Wrap(errors.ErrConflict, "sample was modified concurrently")

	// ErrConflictExhausted indicates every retry lost the version check.
	ErrConflictExhausted = errors.Wrap(errors.ErrConflict, "status change retries exhausted")

	// ErrOutcomeUnknown indicates the deadline passed before the change was known
	// to be committed or not. Callers must re-query the sample.
	ErrOutcomeUnknown = errors.Wrap(errors.ErrTimeout, "status change outcome unknown, re-query the sample")
)
