package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/sampletrack/internal/errors"
	notificationDomain "github.com/allisson/sampletrack/internal/notification/domain"
	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
	"github.com/allisson/sampletrack/internal/sample/http/dto"
	"github.com/allisson/sampletrack/internal/sample/usecase/mocks"
)

// setupTestSampleHandler creates a test handler with mocked dependencies.
func setupTestSampleHandler(t *testing.T) (*SampleHandler, *mocks.MockSampleUseCase, *mocks.MockStatusUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockSampleUseCase := &mocks.MockSampleUseCase{}
	mockStatusUseCase := &mocks.MockStatusUseCase{}
	t.Cleanup(func() {
		mockSampleUseCase.AssertExpectations(t)
		mockStatusUseCase.AssertExpectations(t)
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewSampleHandler(mockSampleUseCase, mockStatusUseCase, logger), mockSampleUseCase, mockStatusUseCase
}

// createTestContext creates a gin context carrying a JSON request.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func newTestSample(clientID uuid.UUID) *sampleDomain.Sample {
	return sampleDomain.NewSample(uuid.Must(uuid.NewV7()), clientID, "reception-1", time.Now().UTC())
}

func TestSampleHandler_CreateHandler(t *testing.T) {
	clientID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		handler, mockSampleUseCase, _ := setupTestSampleHandler(t)
		sample := newTestSample(clientID)

		mockSampleUseCase.On("Create", mock.Anything, mock.MatchedBy(func(input *sampleDomain.CreateSampleInput) bool {
			return input.ClientID == clientID && input.Actor.ID == "reception-1"
		})).Return(sample, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/samples", dto.CreateSampleRequest{
			ClientID: clientID.String(),
			Actor:    dto.ActorRequest{ID: "reception-1", Name: "Bia"},
		})

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response dto.SampleResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, sample.ID.String(), response.ID)
		assert.Equal(t, "received", response.Status)
		assert.Equal(t, int64(1), response.Version)
		require.Len(t, response.History, 1)
		assert.Empty(t, response.History[0].FromStatus)
	})

	t.Run("Error_MissingActor", func(t *testing.T) {
		handler, _, _ := setupTestSampleHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/samples", dto.CreateSampleRequest{ClientID: clientID.String()})

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_InvalidClientID", func(t *testing.T) {
		handler, _, _ := setupTestSampleHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/samples", dto.CreateSampleRequest{
			ClientID: "nope",
			Actor:    dto.ActorRequest{ID: "reception-1"},
		})

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "invalid client ID format")
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		handler, _, _ := setupTestSampleHandler(t)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/v1/samples", bytes.NewBufferString("{"))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSampleHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSampleUseCase, _ := setupTestSampleHandler(t)
		sample := newTestSample(uuid.Must(uuid.NewV7()))
		mockSampleUseCase.On("Get", mock.Anything, sample.ID).Return(sample, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/samples/"+sample.ID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: sample.ID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.SampleResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, sample.ClientID.String(), response.ClientID)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockSampleUseCase, _ := setupTestSampleHandler(t)
		id := uuid.Must(uuid.NewV7())
		mockSampleUseCase.On("Get", mock.Anything, id).Return(nil, sampleDomain.ErrSampleNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/v1/samples/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _, _ := setupTestSampleHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/samples/nope", nil)
		c.Params = gin.Params{{Key: "id", Value: "nope"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestSampleHandler_ChangeStatusHandler(t *testing.T) {
	sampleID := uuid.Must(uuid.NewV7())
	request := dto.ChangeStatusRequest{
		Status: "in_analysis",
		Actor:  dto.ActorRequest{ID: "analyst-1", Name: "Caio", Role: "analyst", Document: "987"},
	}

	newContext := func(body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
		c, w := createTestContext(http.MethodPost, "/v1/samples/"+sampleID.String()+"/status", body)
		c.Params = gin.Params{{Key: "id", Value: sampleID.String()}}
		return c, w
	}

	t.Run("Success", func(t *testing.T) {
		handler, _, mockStatusUseCase := setupTestSampleHandler(t)
		mockStatusUseCase.On("ChangeStatus", mock.Anything, mock.MatchedBy(func(input *sampleDomain.ChangeStatusInput) bool {
			return input.SampleID == sampleID &&
				input.Status == sampleDomain.StatusInAnalysis &&
				input.Actor.Document == "987"
		})).Return(&sampleDomain.OrchestrationResult{
			SampleID:       sampleID,
			PreviousStatus: sampleDomain.StatusReceived,
			NewStatus:      sampleDomain.StatusInAnalysis,
			Version:        2,
			AuditID:        "audit-001",
			Dispatch:       &notificationDomain.DispatchResult{SentCount: 2, FailedCount: 1, DeactivatedTokens: []string{"tok"}},
		}, nil).Once()

		c, w := newContext(request)

		handler.ChangeStatusHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ChangeStatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "received", response.PreviousStatus)
		assert.Equal(t, "in_analysis", response.NewStatus)
		assert.Equal(t, int64(2), response.Version)
		assert.Equal(t, "audit-001", response.AuditID)
		require.NotNil(t, response.Dispatch)
		assert.Equal(t, 2, response.Dispatch.SentCount)
		assert.Equal(t, []string{"tok"}, response.Dispatch.DeactivatedTokens)
		assert.Empty(t, response.Dispatch.Error)
	})

	t.Run("Success_ReportsDispatchFailure", func(t *testing.T) {
		handler, _, mockStatusUseCase := setupTestSampleHandler(t)
		mockStatusUseCase.On("ChangeStatus", mock.Anything, mock.Anything).Return(&sampleDomain.OrchestrationResult{
			SampleID:       sampleID,
			PreviousStatus: sampleDomain.StatusReceived,
			NewStatus:      sampleDomain.StatusInAnalysis,
			Version:        2,
			DispatchError:  notificationDomain.ErrGatewayUnreachable,
		}, nil).Once()

		c, w := newContext(request)

		handler.ChangeStatusHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ChangeStatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Empty(t, response.AuditID)
		require.NotNil(t, response.Dispatch)
		assert.Contains(t, response.Dispatch.Error, "unreachable")
		assert.Equal(t, []string{}, response.Dispatch.DeactivatedTokens)
	})

	t.Run("Error_InvalidTransition", func(t *testing.T) {
		handler, _, mockStatusUseCase := setupTestSampleHandler(t)
		mockStatusUseCase.On("ChangeStatus", mock.Anything, mock.Anything).
			Return(nil, apperrors.Wrapf(sampleDomain.ErrInvalidTransition, "cannot change status from received to finalized")).
			Once()

		c, w := newContext(dto.ChangeStatusRequest{Status: "finalized", Actor: request.Actor})

		handler.ChangeStatusHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "cannot change status from received to finalized")
	})

	t.Run("Error_ConflictExhausted", func(t *testing.T) {
		handler, _, mockStatusUseCase := setupTestSampleHandler(t)
		mockStatusUseCase.On("ChangeStatus", mock.Anything, mock.Anything).
			Return(nil, sampleDomain.ErrConflictExhausted).Once()

		c, w := newContext(request)

		handler.ChangeStatusHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Error_OutcomeUnknown", func(t *testing.T) {
		handler, _, mockStatusUseCase := setupTestSampleHandler(t)
		mockStatusUseCase.On("ChangeStatus", mock.Anything, mock.Anything).
			Return(nil, apperrors.Join(sampleDomain.ErrOutcomeUnknown, context.DeadlineExceeded)).Once()

		c, w := newContext(request)

		handler.ChangeStatusHandler(c)

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Contains(t, w.Body.String(), "outcome_unknown")
	})

	t.Run("Error_MissingActorID", func(t *testing.T) {
		handler, _, _ := setupTestSampleHandler(t)

		c, w := newContext(dto.ChangeStatusRequest{Status: "in_analysis"})

		handler.ChangeStatusHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "validation_error")
	})

	t.Run("Error_InvalidSampleID", func(t *testing.T) {
		handler, _, _ := setupTestSampleHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/samples/nope/status", request)
		c.Params = gin.Params{{Key: "id", Value: "nope"}}

		handler.ChangeStatusHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_UseCaseFailure", func(t *testing.T) {
		handler, _, mockStatusUseCase := setupTestSampleHandler(t)
		mockStatusUseCase.On("ChangeStatus", mock.Anything, mock.Anything).
			Return(nil, errors.New("db down")).Once()

		c, w := newContext(request)

		handler.ChangeStatusHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
