// Package http provides HTTP handlers for sample registration and status changes.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/sampletrack/internal/httputil"
	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
	"github.com/allisson/sampletrack/internal/sample/http/dto"
	sampleUseCase "github.com/allisson/sampletrack/internal/sample/usecase"
	customValidation "github.com/allisson/sampletrack/internal/validation"
)

// SampleHandler handles HTTP requests for samples.
type SampleHandler struct {
	sampleUseCase sampleUseCase.SampleUseCase
	statusUseCase sampleUseCase.StatusUseCase
	logger        *slog.Logger
}

// NewSampleHandler creates a new sample handler with required dependencies.
func NewSampleHandler(
	sampleUseCase sampleUseCase.SampleUseCase,
	statusUseCase sampleUseCase.StatusUseCase,
	logger *slog.Logger,
) *SampleHandler {
	return &SampleHandler{
		sampleUseCase: sampleUseCase,
		statusUseCase: statusUseCase,
		logger:        logger,
	}
}

// CreateHandler registers a new sample in the received status.
// POST /v1/samples - Returns 201 Created with the sample and its history.
func (h *SampleHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid client ID format: must be a valid UUID"),
			h.logger)
		return
	}

	sample, err := h.sampleUseCase.Create(c.Request.Context(), &sampleDomain.CreateSampleInput{
		ClientID: clientID,
		Actor:    req.Actor.ToDomain(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSampleToResponse(sample))
}

// GetHandler returns a sample with its status history.
// GET /v1/samples/:id - Returns 200 OK. Clients re-query here after a 504.
func (h *SampleHandler) GetHandler(c *gin.Context) {
	sampleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid sample ID format: must be a valid UUID"),
			h.logger)
		return
	}

	sample, err := h.sampleUseCase.Get(c.Request.Context(), sampleID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSampleToResponse(sample))
}

// ChangeStatusHandler moves a sample to another status.
// POST /v1/samples/:id/status - Returns 200 OK with the audit id and dispatch summary.
// Rejected transitions return 422 and are audited; an unknown outcome returns 504.
func (h *SampleHandler) ChangeStatusHandler(c *gin.Context) {
	sampleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid sample ID format: must be a valid UUID"),
			h.logger)
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.statusUseCase.ChangeStatus(c.Request.Context(), &sampleDomain.ChangeStatusInput{
		SampleID: sampleID,
		Status:   sampleDomain.Status(req.Status),
		Actor:    req.Actor.ToDomain(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrchestrationToResponse(result))
}
