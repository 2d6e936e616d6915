package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/sampletrack/internal/database"
	apperrors "github.com/allisson/sampletrack/internal/errors"
	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
)

// sampleUseCase implements SampleUseCase.
type sampleUseCase struct {
	txManager  database.TxManager
	sampleRepo SampleRepository
	now        func() time.Time
}

// Create registers a new sample owned by input.ClientID.
func (s *sampleUseCase) Create(
	ctx context.Context,
	input *sampleDomain.CreateSampleInput,
) (*sampleDomain.Sample, error) {
	if input == nil || input.ClientID == uuid.Nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "client id is required")
	}
	if strings.TrimSpace(input.Actor.ID) == "" {
		return nil, sampleDomain.ErrInvalidActor
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate sample id")
	}

	sample := sampleDomain.NewSample(id, input.ClientID, input.Actor.ID, s.now().UTC())

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		return s.sampleRepo.Create(ctx, sample)
	})
	if err != nil {
		return nil, err
	}

	return sample, nil
}

// Get returns a sample with its history.
func (s *sampleUseCase) Get(ctx context.Context, id uuid.UUID) (*sampleDomain.Sample, error) {
	return s.sampleRepo.Get(ctx, id)
}

// NewSampleUseCase creates a new SampleUseCase.
func NewSampleUseCase(txManager database.TxManager, sampleRepo SampleRepository) SampleUseCase {
	return &sampleUseCase{
		txManager:  txManager,
		sampleRepo: sampleRepo,
		now:        time.Now,
	}
}
