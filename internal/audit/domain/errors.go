package domain

import (
	"github.com/allisson/sampletrack/internal/errors"
)

// Audit errors.
var (
	// ErrAuditPersistence indicates the audit record could not be stored.
	ErrAuditPersistence = errors.Wrap(errors.ErrUnavailable, "audit record persistence failure")

	// ErrInvalidOutcome indicates an outcome other than succeeded or failed.
	ErrInvalidOutcome = errors.Wrap(errors.ErrInvalidInput, "invalid audit outcome")

	// ErrSignatureInvalid indicates the record does not match its signature.
	ErrSignatureInvalid = errors.New("audit record signature is invalid")
)
