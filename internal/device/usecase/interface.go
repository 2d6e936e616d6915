// Package usecase defines business logic interfaces for the device registry.
package usecase

import (
	"context"

	"github.com/google/uuid"

	deviceDomain "github.com/allisson/sampletrack/internal/device/domain"
)

// DeviceRepository defines persistence operations for device registrations.
type DeviceRepository interface {
	// Upsert inserts the registration or, when (client_id, token) already exists,
	// reactivates it and refreshes platform, device info and last_used_at. On
	// return the registration carries the stored ID and CreatedAt.
	Upsert(ctx context.Context, registration *deviceDomain.DeviceRegistration) error

	// FindActiveByClient returns the active registrations of a client ordered by creation time.
	FindActiveByClient(ctx context.Context, clientID uuid.UUID) ([]*deviceDomain.DeviceRegistration, error)

	// MarkInactive flags every registration holding the token as inactive.
	MarkInactive(ctx context.Context, token string) error
}

// DeviceUseCase manages the mapping from clients to their push-capable devices.
type DeviceUseCase interface {
	// Register records a device for a client. Registering the same token again
	// for the same client reactivates the existing registration.
	Register(
		ctx context.Context,
		input *deviceDomain.RegisterDeviceInput,
	) (*deviceDomain.DeviceRegistration, error)

	// ListActive returns the client's active registrations. A client with no
	// devices yields an empty slice.
	ListActive(ctx context.Context, clientID uuid.UUID) ([]*deviceDomain.DeviceRegistration, error)

	// Deactivate marks the token inactive. Unknown tokens are not an error.
	Deactivate(ctx context.Context, token string) error
}
