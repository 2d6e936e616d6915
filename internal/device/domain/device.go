// Package domain defines the device registration entity used to reach a client's devices.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Platform identifies the push platform of a registered device.
type Platform string

// Supported device platforms.
const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return true
	default:
		return false
	}
}

// DeviceRegistration binds a push token to the client that owns it. A
// registration is never hard-deleted: rejected or unregistered tokens are
// flagged inactive so they stop receiving notifications.
type DeviceRegistration struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	Token      string
	Platform   Platform
	IsActive   bool
	DeviceInfo map[string]any
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// RegisterDeviceInput contains the parameters for registering a device.
type RegisterDeviceInput struct {
	ClientID   uuid.UUID
	Token      string
	Platform   Platform
	DeviceInfo map[string]any
}
