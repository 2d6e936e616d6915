package dto

import (
	"time"

	deviceDomain "github.com/allisson/sampletrack/internal/device/domain"
)

// DeviceResponse represents a device registration in API responses.
type DeviceResponse struct {
	ID         string         `json:"id"`
	ClientID   string         `json:"client_id"`
	Token      string         `json:"token"`
	Platform   string         `json:"platform"`
	IsActive   bool           `json:"is_active"`
	DeviceInfo map[string]any `json:"device_info,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	LastUsedAt time.Time      `json:"last_used_at"`
}

// MapDeviceToResponse converts a domain registration to an API response.
func MapDeviceToResponse(registration *deviceDomain.DeviceRegistration) DeviceResponse {
	return DeviceResponse{
		ID:         registration.ID.String(),
		ClientID:   registration.ClientID.String(),
		Token:      registration.Token,
		Platform:   string(registration.Platform),
		IsActive:   registration.IsActive,
		DeviceInfo: registration.DeviceInfo,
		CreatedAt:  registration.CreatedAt,
		LastUsedAt: registration.LastUsedAt,
	}
}

// ListDevicesResponse represents the active devices of a client.
type ListDevicesResponse struct {
	Data []DeviceResponse `json:"data"`
}

// MapDevicesToListResponse converts domain registrations to a list API response.
func MapDevicesToListResponse(registrations []*deviceDomain.DeviceRegistration) ListDevicesResponse {
	responses := make([]DeviceResponse, 0, len(registrations))
	for _, registration := range registrations {
		responses = append(responses, MapDeviceToResponse(registration))
	}
	return ListDevicesResponse{Data: responses}
}
