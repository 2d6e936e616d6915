package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	auditDomain "github.com/allisson/sampletrack/internal/audit/domain"
	auditUseCase "github.com/allisson/sampletrack/internal/audit/usecase"
	apperrors "github.com/allisson/sampletrack/internal/errors"
	notificationDomain "github.com/allisson/sampletrack/internal/notification/domain"
	notificationUseCase "github.com/allisson/sampletrack/internal/notification/usecase"
	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
)

// auditWriteTimeout bounds an audit write once it is detached from the
// request context.
const auditWriteTimeout = 5 * time.Second

// statusUseCase implements StatusUseCase.
type statusUseCase struct {
	transition TransitionUseCase
	audit      auditUseCase.AuditUseCase
	dispatcher notificationUseCase.DispatchUseCase
	directory  ClientDirectory
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// ChangeStatus applies the transition and then, concurrently, writes the
// succeeded audit record and notifies the owning client's devices. A failed
// transition is audited as failed and its error returned.
func (s *statusUseCase) ChangeStatus(
	ctx context.Context,
	input *sampleDomain.ChangeStatusInput,
) (*sampleDomain.OrchestrationResult, error) {
	if input == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "change status input is required")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := s.now()
	event, err := s.transition.Apply(ctx, input.SampleID, input.Status, input.Actor)
	if err != nil {
		if outcomeUnknown(ctx, err) {
			err = apperrors.Join(sampleDomain.ErrOutcomeUnknown, err)
		}
		s.recordFailure(ctx, input, err, s.now().Sub(start))
		return nil, err
	}

	result := &sampleDomain.OrchestrationResult{
		SampleID:       event.SampleID,
		PreviousStatus: event.FromStatus,
		NewStatus:      event.ToStatus,
		Version:        event.Version,
	}

	var g errgroup.Group
	g.Go(func() error {
		// The change is committed; its record must land even if the
		// orchestration deadline expires right after Apply.
		auditCtx, cancel := detachedAuditContext(ctx)
		defer cancel()

		record, err := s.audit.Record(auditCtx, &auditDomain.RecordInput{
			Actor:          actorSnapshot(input.Actor),
			Action:         auditDomain.ActionSampleStatusChange,
			SubjectDetails: eventDetails(event),
			Outcome:        auditDomain.OutcomeSucceeded,
			Duration:       s.now().Sub(start),
		})
		if err != nil {
			s.logger.Error("audit record missing for applied status change",
				slog.String("sample_id", event.SampleID.String()),
				slog.String("from_status", string(event.FromStatus)),
				slog.String("to_status", string(event.ToStatus)),
				slog.Int64("version", event.Version),
				slog.Any("error", err),
			)
			return nil
		}
		result.AuditID = record.ID
		return nil
	})
	g.Go(func() error {
		dispatch, err := s.notify(ctx, event)
		if err != nil {
			s.logger.Warn("status change notification failed",
				slog.String("sample_id", event.SampleID.String()),
				slog.Any("error", err),
			)
		}
		result.Dispatch = dispatch
		result.DispatchError = err
		return nil
	})
	_ = g.Wait()

	return result, nil
}

func (s *statusUseCase) notify(
	ctx context.Context,
	event *sampleDomain.StatusTransitionEvent,
) (*notificationDomain.DispatchResult, error) {
	clientID, err := s.directory.ResolveClientID(ctx, event.SampleID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to resolve owning client")
	}

	return s.dispatcher.Dispatch(ctx, clientID, &notificationDomain.Payload{
		Title: "Sample status updated",
		Body:  fmt.Sprintf("Sample %s moved from %s to %s", event.SampleID, event.FromStatus, event.ToStatus),
		Data:  eventDetails(event),
	})
}

// recordFailure writes the failed audit record on a context detached from the
// caller so the trail survives cancellation and timeouts.
func (s *statusUseCase) recordFailure(
	ctx context.Context,
	input *sampleDomain.ChangeStatusInput,
	cause error,
	duration time.Duration,
) {
	auditCtx, cancel := detachedAuditContext(ctx)
	defer cancel()

	details := map[string]any{
		"sample_id":        input.SampleID.String(),
		"requested_status": string(input.Status),
	}
	// The change may have committed after all; reconciliation must re-read
	// the sample instead of trusting the failed outcome.
	if errors.Is(cause, sampleDomain.ErrOutcomeUnknown) {
		details["outcome_unknown"] = true
	}

	_, err := s.audit.Record(auditCtx, &auditDomain.RecordInput{
		Actor:          actorSnapshot(input.Actor),
		Action:         auditDomain.ActionSampleStatusChange,
		SubjectDetails: details,
		Outcome:        auditDomain.OutcomeFailed,
		Err:            cause,
		Duration:       duration,
	})
	if err != nil {
		s.logger.Error("audit record missing for failed status change",
			slog.String("sample_id", input.SampleID.String()),
			slog.String("requested_status", string(input.Status)),
			slog.Any("cause", cause),
			slog.Any("error", err),
		)
	}
}

// detachedAuditContext keeps the request's values but not its cancellation.
func detachedAuditContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
}

// outcomeUnknown reports whether err leaves the commit state undetermined:
// the deadline passed and the error is not a rejection made before writing.
func outcomeUnknown(ctx context.Context, err error) bool {
	if errors.Is(err, apperrors.ErrInvalidInput) || errors.Is(err, apperrors.ErrNotFound) {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func actorSnapshot(actor sampleDomain.Actor) auditDomain.ActorSnapshot {
	return auditDomain.ActorSnapshot{
		ID:       actor.ID,
		Name:     actor.Name,
		Role:     actor.Role,
		Document: actor.Document,
	}
}

func eventDetails(event *sampleDomain.StatusTransitionEvent) map[string]any {
	return map[string]any{
		"sample_id":   event.SampleID.String(),
		"client_id":   event.ClientID.String(),
		"from_status": string(event.FromStatus),
		"to_status":   string(event.ToStatus),
		"version":     event.Version,
	}
}

// NewStatusUseCase creates a new StatusUseCase. A non-positive timeout leaves
// the caller's deadline as the only bound.
func NewStatusUseCase(
	transition TransitionUseCase,
	audit auditUseCase.AuditUseCase,
	dispatcher notificationUseCase.DispatchUseCase,
	directory ClientDirectory,
	timeout time.Duration,
	logger *slog.Logger,
) StatusUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &statusUseCase{
		transition: transition,
		audit:      audit,
		dispatcher: dispatcher,
		directory:  directory,
		timeout:    timeout,
		logger:     logger,
		now:        time.Now,
	}
}
