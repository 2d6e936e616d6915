// Package usecase implements business logic orchestration for the device registry.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	deviceDomain "github.com/allisson/sampletrack/internal/device/domain"
	apperrors "github.com/allisson/sampletrack/internal/errors"
	customValidation "github.com/allisson/sampletrack/internal/validation"
)

// maxTokenLength bounds push token size.
const maxTokenLength = 4096

// deviceUseCase implements DeviceUseCase.
type deviceUseCase struct {
	deviceRepo DeviceRepository
	logger     *slog.Logger
}

func validateRegisterInput(input *deviceDomain.RegisterDeviceInput) error {
	return validation.ValidateStruct(input,
		validation.Field(&input.ClientID,
			validation.By(func(value interface{}) error {
				if value.(uuid.UUID) == uuid.Nil {
					return validation.NewError("validation_required", "cannot be blank")
				}
				return nil
			}),
		),
		validation.Field(&input.Token,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			customValidation.NoControlChars,
			validation.Length(1, maxTokenLength),
		),
		validation.Field(&input.Platform,
			validation.Required,
			validation.In(deviceDomain.PlatformIOS, deviceDomain.PlatformAndroid, deviceDomain.PlatformWeb),
		),
	)
}

// Register validates the input and upserts the registration. The stored row
// keeps its original ID and CreatedAt when the token was already known.
func (d *deviceUseCase) Register(
	ctx context.Context,
	input *deviceDomain.RegisterDeviceInput,
) (*deviceDomain.DeviceRegistration, error) {
	if input == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "register device input is required")
	}
	if err := validateRegisterInput(input); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	now := time.Now().UTC()
	registration := &deviceDomain.DeviceRegistration{
		ID:         uuid.Must(uuid.NewV7()),
		ClientID:   input.ClientID,
		Token:      input.Token,
		Platform:   input.Platform,
		IsActive:   true,
		DeviceInfo: input.DeviceInfo,
		CreatedAt:  now,
		LastUsedAt: now,
	}

	if err := d.deviceRepo.Upsert(ctx, registration); err != nil {
		return nil, apperrors.Wrap(err, "failed to register device")
	}

	d.logger.Debug("device registered",
		slog.String("client_id", registration.ClientID.String()),
		slog.String("registration_id", registration.ID.String()),
		slog.String("platform", string(registration.Platform)),
	)

	return registration, nil
}

// ListActive returns the client's active registrations.
func (d *deviceUseCase) ListActive(
	ctx context.Context,
	clientID uuid.UUID,
) ([]*deviceDomain.DeviceRegistration, error) {
	registrations, err := d.deviceRepo.FindActiveByClient(ctx, clientID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active devices")
	}
	if registrations == nil {
		registrations = []*deviceDomain.DeviceRegistration{}
	}
	return registrations, nil
}

// Deactivate flags the token inactive. Repeated calls and unknown tokens succeed.
func (d *deviceUseCase) Deactivate(ctx context.Context, token string) error {
	if err := validation.Validate(token, validation.Required, customValidation.NotBlank); err != nil {
		return customValidation.WrapValidationError(err)
	}

	if err := d.deviceRepo.MarkInactive(ctx, token); err != nil {
		return apperrors.Wrap(err, "failed to deactivate device")
	}

	return nil
}

// NewDeviceUseCase creates a new DeviceUseCase with the provided dependencies.
func NewDeviceUseCase(deviceRepo DeviceRepository, logger *slog.Logger) DeviceUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &deviceUseCase{
		deviceRepo: deviceRepo,
		logger:     logger,
	}
}
