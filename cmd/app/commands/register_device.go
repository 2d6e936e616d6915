package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	deviceDomain "github.com/allisson/sampletrack/internal/device/domain"
	deviceUseCase "github.com/allisson/sampletrack/internal/device/usecase"
)

// RunRegisterDevice registers (or reactivates) a device token for a client.
// deviceInfoJSON is optional and must be a JSON object when set.
func RunRegisterDevice(
	ctx context.Context,
	deviceUseCase deviceUseCase.DeviceUseCase,
	logger *slog.Logger,
	writer io.Writer,
	clientIDStr string,
	token string,
	platform string,
	deviceInfoJSON string,
	format string,
) error {
	clientID, err := uuid.Parse(clientIDStr)
	if err != nil {
		return fmt.Errorf("invalid client ID format: %w", err)
	}

	var deviceInfo map[string]any
	if deviceInfoJSON != "" {
		if err := json.Unmarshal([]byte(deviceInfoJSON), &deviceInfo); err != nil {
			return fmt.Errorf("failed to parse device info JSON: %w", err)
		}
	}

	registration, err := deviceUseCase.Register(ctx, &deviceDomain.RegisterDeviceInput{
		ClientID:   clientID,
		Token:      token,
		Platform:   deviceDomain.Platform(platform),
		DeviceInfo: deviceInfo,
	})
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"id":        registration.ID.String(),
			"client_id": registration.ClientID.String(),
			"platform":  registration.Platform,
			"is_active": registration.IsActive,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, "Device registered successfully!")
		_, _ = fmt.Fprintf(writer, "Registration ID: %s\n", registration.ID)
		_, _ = fmt.Fprintf(writer, "Platform:        %s\n", registration.Platform)
	}

	logger.Info("device registered",
		slog.String("registration_id", registration.ID.String()),
		slog.String("client_id", clientID.String()),
	)
	return nil
}
