// Package usecase defines business logic interfaces for audit recording.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/sampletrack/internal/audit/domain"
)

// AuditRepository defines persistence operations for audit records.
type AuditRepository interface {
	// Create stores a new record. Records are never updated afterwards.
	Create(ctx context.Context, record *auditDomain.AuditRecord) error

	// List returns records ordered by occurred_at descending. occurredFrom and
	// occurredTo are optional inclusive bounds.
	List(
		ctx context.Context,
		offset, limit int,
		occurredFrom, occurredTo *time.Time,
	) ([]*auditDomain.AuditRecord, error)
}

// VerificationReport summarizes a signature verification run.
type VerificationReport struct {
	TotalChecked   int64
	SignedCount    int64
	UnsignedCount  int64
	ValidCount     int64
	InvalidCount   int64
	InvalidRecords []string
}

// AuditUseCase writes and reads the audit trail.
type AuditUseCase interface {
	// Record mints a sequence identifier and stores an immutable record for the
	// attempted action. Returns ErrCounterPersistence when no identifier could
	// be minted and ErrAuditPersistence when the record could not be stored.
	Record(ctx context.Context, input *auditDomain.RecordInput) (*auditDomain.AuditRecord, error)

	// List returns records newest first with optional inclusive time bounds.
	List(
		ctx context.Context,
		offset, limit int,
		occurredFrom, occurredTo *time.Time,
	) ([]*auditDomain.AuditRecord, error)

	// VerifyBatch checks the signatures of every record that occurred in [start, end].
	VerifyBatch(ctx context.Context, start, end time.Time) (*VerificationReport, error)
}
