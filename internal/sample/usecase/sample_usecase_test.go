package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/sampletrack/internal/errors"
	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
)

func TestSampleUseCase_Create(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.Must(uuid.NewV7())
	actor := sampleDomain.Actor{ID: "user-1", Name: "Ana"}

	t.Run("Success", func(t *testing.T) {
		txManager := &MockTxManager{}
		repo := &mockSampleRepository{}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(s *sampleDomain.Sample) bool {
			return s.ClientID == clientID && s.Status == sampleDomain.StatusReceived && s.Version == 1
		})).Return(nil).Once()

		useCase := NewSampleUseCase(txManager, repo)
		sample, err := useCase.Create(ctx, &sampleDomain.CreateSampleInput{ClientID: clientID, Actor: actor})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, sample.ID)
		require.Len(t, sample.History, 1)
		assert.Equal(t, "user-1", sample.History[0].ActorID)
		assert.Equal(t, time.UTC, sample.CreatedAt.Location())
		txManager.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("Error_MissingClient", func(t *testing.T) {
		useCase := NewSampleUseCase(&MockTxManager{}, &mockSampleRepository{})

		_, err := useCase.Create(ctx, &sampleDomain.CreateSampleInput{Actor: actor})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_MissingActor", func(t *testing.T) {
		useCase := NewSampleUseCase(&MockTxManager{}, &mockSampleRepository{})

		_, err := useCase.Create(ctx, &sampleDomain.CreateSampleInput{ClientID: clientID})

		assert.ErrorIs(t, err, sampleDomain.ErrInvalidActor)
	})

	t.Run("Error_Repository", func(t *testing.T) {
		txManager := &MockTxManager{}
		repo := &mockSampleRepository{}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed")).Once()

		useCase := NewSampleUseCase(txManager, repo)
		sample, err := useCase.Create(ctx, &sampleDomain.CreateSampleInput{ClientID: clientID, Actor: actor})

		assert.Nil(t, sample)
		assert.EqualError(t, err, "insert failed")
	})
}

func TestSampleUseCase_Get(t *testing.T) {
	ctx := context.Background()
	id := uuid.Must(uuid.NewV7())
	repo := &mockSampleRepository{}

	repo.On("Get", ctx, id).Return(nil, sampleDomain.ErrSampleNotFound).Once()

	useCase := NewSampleUseCase(&MockTxManager{}, repo)
	_, err := useCase.Get(ctx, id)

	assert.ErrorIs(t, err, sampleDomain.ErrSampleNotFound)
}
