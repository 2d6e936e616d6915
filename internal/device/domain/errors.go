package domain

import (
	"github.com/allisson/sampletrack/internal/errors"
)

// Device registry errors.
var (
	// ErrDeviceNotFound indicates no registration exists for the given identifier.
	ErrDeviceNotFound = errors.Wrap(errors.ErrNotFound, "device registration not found")

	// ErrInvalidPlatform indicates an unsupported device platform.
	ErrInvalidPlatform = errors.Wrap(errors.ErrInvalidInput, "invalid device platform")
)
