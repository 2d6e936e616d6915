// Package http provides HTTP handlers for audit record queries.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/sampletrack/internal/audit/http/dto"
	auditUseCase "github.com/allisson/sampletrack/internal/audit/usecase"
	"github.com/allisson/sampletrack/internal/httputil"
)

// AuditHandler handles HTTP requests for audit records.
type AuditHandler struct {
	auditUseCase auditUseCase.AuditUseCase
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler with required dependencies.
func NewAuditHandler(auditUseCase auditUseCase.AuditUseCase, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		auditUseCase: auditUseCase,
		logger:       logger,
	}
}

// ListHandler retrieves audit records with pagination and optional time filtering.
// GET /v1/audit-records?offset=0&limit=50&occurred_at_from=...&occurred_at_to=...
// Returns 200 OK with records ordered by occurred_at descending.
func (h *AuditHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	occurredFrom, err := parseTimeQuery(c, "occurred_at_from")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	occurredTo, err := parseTimeQuery(c, "occurred_at_to")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if occurredFrom != nil && occurredTo != nil && occurredFrom.After(*occurredTo) {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("occurred_at_from must be before or equal to occurred_at_to"),
			h.logger)
		return
	}

	records, err := h.auditUseCase.List(c.Request.Context(), offset, limit, occurredFrom, occurredTo)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditRecordsToListResponse(records))
}

// parseTimeQuery reads an optional RFC3339 query parameter as UTC.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: must be RFC3339 (e.g., 2026-10-01T00:00:00Z)", name)
	}

	utc := parsed.UTC()
	return &utc, nil
}
