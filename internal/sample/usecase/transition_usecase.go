package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/sampletrack/internal/database"
	apperrors "github.com/allisson/sampletrack/internal/errors"
	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
)

// defaultMaxAttempts is used when no positive attempt limit is configured.
const defaultMaxAttempts = 3

// transitionUseCase implements TransitionUseCase.
type transitionUseCase struct {
	txManager   database.TxManager
	sampleRepo  SampleRepository
	maxAttempts int
	logger      *slog.Logger
	now         func() time.Time
}

// Apply loads the sample, checks the lifecycle table and saves it with an
// optimistic version check. A lost check reloads and retries, so a concurrent
// change that makes the request invalid is reported as ErrInvalidTransition.
func (t *transitionUseCase) Apply(
	ctx context.Context,
	sampleID uuid.UUID,
	requested sampleDomain.Status,
	actor sampleDomain.Actor,
) (*sampleDomain.StatusTransitionEvent, error) {
	if !requested.Valid() {
		return nil, sampleDomain.ErrInvalidStatus
	}
	if strings.TrimSpace(actor.ID) == "" {
		return nil, sampleDomain.ErrInvalidActor
	}

	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		event, err := t.applyOnce(ctx, sampleID, requested, actor)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, sampleDomain.ErrConcurrencyConflict) {
			return nil, err
		}

		t.logger.Debug("status change lost version check",
			slog.String("sample_id", sampleID.String()),
			slog.Int("attempt", attempt),
		)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}

	return nil, apperrors.Wrapf(sampleDomain.ErrConflictExhausted, "gave up after %d attempts", t.maxAttempts)
}

func (t *transitionUseCase) applyOnce(
	ctx context.Context,
	sampleID uuid.UUID,
	requested sampleDomain.Status,
	actor sampleDomain.Actor,
) (*sampleDomain.StatusTransitionEvent, error) {
	var event *sampleDomain.StatusTransitionEvent

	err := t.txManager.WithTx(ctx, func(ctx context.Context) error {
		sample, err := t.sampleRepo.Get(ctx, sampleID)
		if err != nil {
			return err
		}

		expectedVersion := sample.Version
		event, err = sample.Transition(requested, actor.ID, t.now().UTC())
		if err != nil {
			return err
		}

		return t.sampleRepo.SaveWithVersionCheck(ctx, sample, expectedVersion)
	})
	if err != nil {
		return nil, err
	}

	return event, nil
}

// NewTransitionUseCase creates a new TransitionUseCase. maxAttempts below one
// falls back to three attempts.
func NewTransitionUseCase(
	txManager database.TxManager,
	sampleRepo SampleRepository,
	maxAttempts int,
	logger *slog.Logger,
) TransitionUseCase {
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &transitionUseCase{
		txManager:   txManager,
		sampleRepo:  sampleRepo,
		maxAttempts: maxAttempts,
		logger:      logger,
		now:         time.Now,
	}
}
