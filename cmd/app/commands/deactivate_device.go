package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	deviceUseCase "github.com/allisson/sampletrack/internal/device/usecase"
)

// RunDeactivateDevice flags every registration holding token as inactive.
func RunDeactivateDevice(
	ctx context.Context,
	deviceUseCase deviceUseCase.DeviceUseCase,
	logger *slog.Logger,
	writer io.Writer,
	token string,
) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is required")
	}

	if err := deviceUseCase.Deactivate(ctx, token); err != nil {
		return fmt.Errorf("failed to deactivate device: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "Device deactivated.")
	logger.Info("device deactivated")
	return nil
}
