// Package usecase defines the sample lifecycle interfaces: persistence, the
// transition state machine and the status change orchestrator.
package usecase

import (
	"context"

	"github.com/google/uuid"

	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
)

// SampleRepository defines the interface for sample persistence.
type SampleRepository interface {
	// Create stores a new sample with its initial history.
	Create(ctx context.Context, sample *sampleDomain.Sample) error

	// Get loads a sample with its full history. Returns ErrSampleNotFound when missing.
	Get(ctx context.Context, id uuid.UUID) (*sampleDomain.Sample, error)

	// SaveWithVersionCheck persists the sample's new status and the history
	// entries appended after expectedVersion, only if the stored version still
	// equals expectedVersion. Returns ErrConcurrencyConflict otherwise.
	SaveWithVersionCheck(ctx context.Context, sample *sampleDomain.Sample, expectedVersion int64) error
}

// ClientDirectory resolves the client that owns a sample.
type ClientDirectory interface {
	ResolveClientID(ctx context.Context, sampleID uuid.UUID) (uuid.UUID, error)
}

// SampleUseCase defines sample registration and lookup.
type SampleUseCase interface {
	// Create registers a new sample in the received status.
	Create(ctx context.Context, input *sampleDomain.CreateSampleInput) (*sampleDomain.Sample, error)

	// Get returns a sample with its history.
	Get(ctx context.Context, id uuid.UUID) (*sampleDomain.Sample, error)
}

// TransitionUseCase applies status transitions against the lifecycle table.
type TransitionUseCase interface {
	// Apply validates and persists one transition, retrying lost version checks.
	// Exactly one mutation is persisted per successful call.
	Apply(
		ctx context.Context,
		sampleID uuid.UUID,
		requested sampleDomain.Status,
		actor sampleDomain.Actor,
	) (*sampleDomain.StatusTransitionEvent, error)
}

// StatusUseCase orchestrates a status change with its audit record and notifications.
type StatusUseCase interface {
	// ChangeStatus applies the transition, then records the audit entry and
	// notifies the owning client's devices. Audit and dispatch failures after a
	// successful transition are reported in the result, not as errors.
	ChangeStatus(
		ctx context.Context,
		input *sampleDomain.ChangeStatusInput,
	) (*sampleDomain.OrchestrationResult, error)
}
