package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
	sampleUseCase "github.com/allisson/sampletrack/internal/sample/usecase"
)

// RunCreateSample registers a sample for a client and prints its ID.
//
// Requirements: Database must be migrated and accessible.
func RunCreateSample(
	ctx context.Context,
	sampleUseCase sampleUseCase.SampleUseCase,
	logger *slog.Logger,
	writer io.Writer,
	clientIDStr string,
	actor ActorArgs,
	format string,
) error {
	clientID, err := uuid.Parse(clientIDStr)
	if err != nil {
		return fmt.Errorf("invalid client ID format: %w", err)
	}

	logger.Info("creating sample", slog.String("client_id", clientID.String()))

	sample, err := sampleUseCase.Create(ctx, &sampleDomain.CreateSampleInput{
		ClientID: clientID,
		Actor:    actor.toDomain(),
	})
	if err != nil {
		return fmt.Errorf("failed to create sample: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"sample_id":  sample.ID.String(),
			"client_id":  sample.ClientID.String(),
			"status":     sample.Status,
			"version":    sample.Version,
			"created_at": sample.CreatedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, "Sample created successfully!")
		_, _ = fmt.Fprintf(writer, "Sample ID: %s\n", sample.ID)
		_, _ = fmt.Fprintf(writer, "Client ID: %s\n", sample.ClientID)
		_, _ = fmt.Fprintf(writer, "Status:    %s\n", sample.Status)
	}

	logger.Info("sample created", slog.String("sample_id", sample.ID.String()))
	return nil
}
