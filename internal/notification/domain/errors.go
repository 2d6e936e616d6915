package domain

import (
	"github.com/allisson/sampletrack/internal/errors"
)

// Notification errors.
var (
	// ErrGatewayUnreachable indicates the push gateway could not be reached at all.
	ErrGatewayUnreachable = errors.Wrap(errors.ErrUnavailable, "notification gateway unreachable")

	// ErrPayloadRequired indicates a dispatch without a payload.
	ErrPayloadRequired = errors.Wrap(errors.ErrInvalidInput, "notification payload is required")
)
