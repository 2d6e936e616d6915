// Package usecase implements business logic orchestration for audit recording.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	auditDomain "github.com/allisson/sampletrack/internal/audit/domain"
	auditService "github.com/allisson/sampletrack/internal/audit/service"
	apperrors "github.com/allisson/sampletrack/internal/errors"
	sequenceDomain "github.com/allisson/sampletrack/internal/sequence/domain"
	sequenceUseCase "github.com/allisson/sampletrack/internal/sequence/usecase"
)

// verifyPageSize is the batch size used when walking records for verification.
const verifyPageSize = 500

// Config holds audit identifier formatting options.
type Config struct {
	// IDPrefix is prepended to the sequence number.
	IDPrefix string
	// IncludePeriod embeds YYYYMM in the identifier.
	IncludePeriod bool
}

// auditUseCase implements AuditUseCase.
type auditUseCase struct {
	config    Config
	sequence  sequenceUseCase.SequenceUseCase
	auditRepo AuditRepository
	signer    auditService.AuditSigner
	publisher auditService.AuditPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// Record mints the identifier, signs the record when a signer is configured and
// stores it. Publishing is best effort and never fails the call.
func (a *auditUseCase) Record(
	ctx context.Context,
	input *auditDomain.RecordInput,
) (*auditDomain.AuditRecord, error) {
	if input == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "record input is required")
	}
	if input.Outcome != auditDomain.OutcomeSucceeded && input.Outcome != auditDomain.OutcomeFailed {
		return nil, auditDomain.ErrInvalidOutcome
	}

	counter, err := a.sequence.Next(ctx, sequenceDomain.AuditCounterName)
	if err != nil {
		return nil, err
	}

	record := &auditDomain.AuditRecord{
		ID:             sequenceDomain.FormatIdentifier(a.config.IDPrefix, counter, a.config.IncludePeriod),
		PeriodYear:     counter.PeriodYear,
		PeriodMonth:    counter.PeriodMonth,
		Actor:          input.Actor,
		Action:         input.Action,
		SubjectDetails: input.SubjectDetails,
		// Storage keeps microsecond precision.
		OccurredAt: a.now().UTC().Truncate(time.Microsecond),
		Outcome:    input.Outcome,
		DurationMs: input.Duration.Milliseconds(),
	}
	if input.Err != nil {
		msg := input.Err.Error()
		record.Error = &msg
	}

	if a.signer != nil {
		signature, err := a.signer.Sign(record)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to sign audit record")
		}
		record.Signature = signature
		record.IsSigned = true
	}

	if err := a.auditRepo.Create(ctx, record); err != nil {
		return nil, apperrors.Join(auditDomain.ErrAuditPersistence, err)
	}

	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, record); err != nil {
			a.logger.Warn("failed to publish audit record",
				slog.String("audit_id", record.ID),
				slog.Any("error", err),
			)
		}
	}

	return record, nil
}

// List retrieves records newest first.
func (a *auditUseCase) List(
	ctx context.Context,
	offset, limit int,
	occurredFrom, occurredTo *time.Time,
) ([]*auditDomain.AuditRecord, error) {
	records, err := a.auditRepo.List(ctx, offset, limit, occurredFrom, occurredTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit records")
	}
	return records, nil
}

// VerifyBatch pages through the range and checks each signed record. Unsigned
// records are counted but not treated as invalid.
func (a *auditUseCase) VerifyBatch(ctx context.Context, start, end time.Time) (*VerificationReport, error) {
	if a.signer == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "audit signing key is not configured")
	}

	report := &VerificationReport{InvalidRecords: []string{}}

	for offset := 0; ; offset += verifyPageSize {
		records, err := a.auditRepo.List(ctx, offset, verifyPageSize, &start, &end)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list audit records for verification")
		}

		for _, record := range records {
			report.TotalChecked++

			if !record.IsSigned {
				report.UnsignedCount++
				continue
			}
			report.SignedCount++

			if err := a.signer.Verify(record); err != nil {
				if !errors.Is(err, auditDomain.ErrSignatureInvalid) {
					return nil, apperrors.Wrap(err, "failed to verify audit record")
				}
				report.InvalidCount++
				report.InvalidRecords = append(report.InvalidRecords, record.ID)
				continue
			}
			report.ValidCount++
		}

		if len(records) < verifyPageSize {
			break
		}
	}

	return report, nil
}

// NewAuditUseCase creates a new AuditUseCase. signer and publisher are optional.
func NewAuditUseCase(
	config Config,
	sequence sequenceUseCase.SequenceUseCase,
	auditRepo AuditRepository,
	signer auditService.AuditSigner,
	publisher auditService.AuditPublisher,
	logger *slog.Logger,
) AuditUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if config.IDPrefix == "" {
		config.IDPrefix = "audit"
	}
	return &auditUseCase{
		config:    config,
		sequence:  sequence,
		auditRepo: auditRepo,
		signer:    signer,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}
