package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
	sampleUseCase "github.com/allisson/sampletrack/internal/sample/usecase"
)

// RunChangeStatus moves a sample to the requested status through the same
// orchestration the HTTP API uses: the change is audited either way and the
// owning client's devices are notified when it is applied.
//
// Requirements: Database must be migrated and accessible.
func RunChangeStatus(
	ctx context.Context,
	statusUseCase sampleUseCase.StatusUseCase,
	logger *slog.Logger,
	writer io.Writer,
	sampleIDStr string,
	status string,
	actor ActorArgs,
	format string,
) error {
	sampleID, err := uuid.Parse(sampleIDStr)
	if err != nil {
		return fmt.Errorf("invalid sample ID format: %w", err)
	}

	logger.Info("changing sample status",
		slog.String("sample_id", sampleID.String()),
		slog.String("status", status),
	)

	result, err := statusUseCase.ChangeStatus(ctx, &sampleDomain.ChangeStatusInput{
		SampleID: sampleID,
		Status:   sampleDomain.Status(status),
		Actor:    actor.toDomain(),
	})
	if err != nil {
		return fmt.Errorf("failed to change status: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, changeStatusJSON(result))
	}
	outputChangeStatusText(writer, result)
	return nil
}

func changeStatusJSON(result *sampleDomain.OrchestrationResult) map[string]any {
	out := map[string]any{
		"sample_id":       result.SampleID.String(),
		"previous_status": result.PreviousStatus,
		"new_status":      result.NewStatus,
		"version":         result.Version,
		"audit_id":        result.AuditID,
	}

	dispatch := map[string]any{}
	if result.Dispatch != nil {
		dispatch["sent_count"] = result.Dispatch.SentCount
		dispatch["failed_count"] = result.Dispatch.FailedCount
		dispatch["deactivated_tokens"] = result.Dispatch.DeactivatedTokens
	}
	if result.DispatchError != nil {
		dispatch["error"] = result.DispatchError.Error()
	}
	out["dispatch"] = dispatch

	return out
}

func outputChangeStatusText(writer io.Writer, result *sampleDomain.OrchestrationResult) {
	_, _ = fmt.Fprintln(writer, "Status changed successfully!")
	_, _ = fmt.Fprintf(writer, "Sample ID: %s\n", result.SampleID)
	_, _ = fmt.Fprintf(writer, "Status:    %s -> %s (version %d)\n",
		result.PreviousStatus, result.NewStatus, result.Version)

	if result.AuditID == "" {
		_, _ = fmt.Fprintln(writer, "Audit ID:  (not recorded)")
	} else {
		_, _ = fmt.Fprintf(writer, "Audit ID:  %s\n", result.AuditID)
	}

	switch {
	case result.DispatchError != nil:
		_, _ = fmt.Fprintf(writer, "Notifications: failed (%v)\n", result.DispatchError)
	case result.Dispatch != nil:
		_, _ = fmt.Fprintf(writer, "Notifications: %d sent, %d failed, %d token(s) deactivated\n",
			result.Dispatch.SentCount, result.Dispatch.FailedCount, len(result.Dispatch.DeactivatedTokens))
	}
}
