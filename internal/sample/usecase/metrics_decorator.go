package usecase

import (
	"context"
	"time"

	"github.com/allisson/sampletrack/internal/metrics"
	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
)

// statusUseCaseWithMetrics decorates StatusUseCase with metrics instrumentation.
type statusUseCaseWithMetrics struct {
	next    StatusUseCase
	metrics metrics.BusinessMetrics
}

// NewStatusUseCaseWithMetrics wraps a StatusUseCase with metrics recording.
func NewStatusUseCaseWithMetrics(useCase StatusUseCase, m metrics.BusinessMetrics) StatusUseCase {
	return &statusUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// ChangeStatus records metrics for status change operations. Applied changes
// whose audit record is missing are counted separately.
func (s *statusUseCaseWithMetrics) ChangeStatus(
	ctx context.Context,
	input *sampleDomain.ChangeStatusInput,
) (*sampleDomain.OrchestrationResult, error) {
	start := time.Now()
	result, err := s.next.ChangeStatus(ctx, input)

	metrics.Observe(ctx, s.metrics, "samples", "status_change", start, err)
	if result != nil && result.AuditID == "" {
		s.metrics.RecordOperation(ctx, "samples", "audit_missing", metrics.StatusError)
	}

	return result, err
}
