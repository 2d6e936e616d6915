package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/sampletrack/internal/metrics"
	notificationDomain "github.com/allisson/sampletrack/internal/notification/domain"
)

// dispatchUseCaseWithMetrics decorates DispatchUseCase with metrics instrumentation.
type dispatchUseCaseWithMetrics struct {
	next    DispatchUseCase
	metrics metrics.BusinessMetrics
}

// NewDispatchUseCaseWithMetrics wraps a DispatchUseCase with metrics recording.
func NewDispatchUseCaseWithMetrics(useCase DispatchUseCase, m metrics.BusinessMetrics) DispatchUseCase {
	return &dispatchUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Dispatch records metrics for dispatch operations.
func (d *dispatchUseCaseWithMetrics) Dispatch(
	ctx context.Context,
	clientID uuid.UUID,
	payload *notificationDomain.Payload,
) (*notificationDomain.DispatchResult, error) {
	start := time.Now()
	result, err := d.next.Dispatch(ctx, clientID, payload)

	metrics.Observe(ctx, d.metrics, "notifications", "dispatch", start, err)
	return result, err
}
