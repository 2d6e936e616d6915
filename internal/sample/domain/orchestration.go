package domain

import (
	"github.com/google/uuid"

	notificationDomain "github.com/allisson/sampletrack/internal/notification/domain"
)

// CreateSampleInput contains the data needed to register a new sample.
type CreateSampleInput struct {
	ClientID uuid.UUID
	Actor    Actor
}

// ChangeStatusInput is a request to move a sample to another status.
type ChangeStatusInput struct {
	SampleID uuid.UUID
	Status   Status
	Actor    Actor
}

// OrchestrationResult reports an applied status change together with the
// outcome of its side effects. AuditID is empty when the audit step failed;
// DispatchError is set only when dispatch failed as a whole.
type OrchestrationResult struct {
	SampleID       uuid.UUID
	PreviousStatus Status
	NewStatus      Status
	Version        int64
	AuditID        string
	Dispatch       *notificationDomain.DispatchResult
	DispatchError  error
}
