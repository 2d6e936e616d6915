// Package dto provides data transfer objects for device registry HTTP requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	deviceDomain "github.com/allisson/sampletrack/internal/device/domain"
	customValidation "github.com/allisson/sampletrack/internal/validation"
)

// RegisterDeviceRequest contains the parameters for registering a device.
type RegisterDeviceRequest struct {
	Token      string         `json:"token"`
	Platform   string         `json:"platform"`
	DeviceInfo map[string]any `json:"device_info,omitempty"`
}

// Validate checks if the register device request is valid.
func (r *RegisterDeviceRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoControlChars,
			validation.Length(1, 4096),
		),
		validation.Field(&r.Platform,
			validation.Required,
			validation.In(
				string(deviceDomain.PlatformIOS),
				string(deviceDomain.PlatformAndroid),
				string(deviceDomain.PlatformWeb),
			),
		),
	)
}
