// Package http provides HTTP handlers for device registry operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	deviceDomain "github.com/allisson/sampletrack/internal/device/domain"
	"github.com/allisson/sampletrack/internal/device/http/dto"
	deviceUseCase "github.com/allisson/sampletrack/internal/device/usecase"
	"github.com/allisson/sampletrack/internal/httputil"
	customValidation "github.com/allisson/sampletrack/internal/validation"
)

// DeviceHandler handles HTTP requests for device registrations.
type DeviceHandler struct {
	deviceUseCase deviceUseCase.DeviceUseCase
	logger        *slog.Logger
}

// NewDeviceHandler creates a new device handler with required dependencies.
func NewDeviceHandler(deviceUseCase deviceUseCase.DeviceUseCase, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{
		deviceUseCase: deviceUseCase,
		logger:        logger,
	}
}

// RegisterHandler registers a push token for a client.
// POST /v1/clients/:id/devices - Returns 201 Created with the stored registration.
// Re-registering a known token reactivates it and returns the original ID.
func (h *DeviceHandler) RegisterHandler(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid client ID format: must be a valid UUID"),
			h.logger)
		return
	}

	var req dto.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	registration, err := h.deviceUseCase.Register(c.Request.Context(), &deviceDomain.RegisterDeviceInput{
		ClientID:   clientID,
		Token:      req.Token,
		Platform:   deviceDomain.Platform(req.Platform),
		DeviceInfo: req.DeviceInfo,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapDeviceToResponse(registration))
}

// ListHandler lists the active devices of a client.
// GET /v1/clients/:id/devices - Returns 200 OK.
func (h *DeviceHandler) ListHandler(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid client ID format: must be a valid UUID"),
			h.logger)
		return
	}

	registrations, err := h.deviceUseCase.ListActive(c.Request.Context(), clientID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDevicesToListResponse(registrations))
}

// DeactivateHandler marks a push token inactive for every client holding it.
// DELETE /v1/devices/:token - Returns 204 No Content, also for unknown tokens.
func (h *DeviceHandler) DeactivateHandler(c *gin.Context) {
	if err := h.deviceUseCase.Deactivate(c.Request.Context(), c.Param("token")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
