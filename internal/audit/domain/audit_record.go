// Package domain defines the immutable audit record written for every attempted
// sample status change.
package domain

import (
	"time"
)

// ActionSampleStatusChange is the action recorded for sample status transitions.
const ActionSampleStatusChange = "sample.status_change"

// Outcome is the result of the audited action.
type Outcome string

// Audit outcomes.
const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// ActorSnapshot captures who performed the action as they were at that moment.
type ActorSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Document string `json:"document,omitempty"`
}

// AuditRecord is an immutable trail entry. Its identifier is human readable
// ("audit-007") and unique together with the period it was minted in.
type AuditRecord struct {
	ID             string
	PeriodYear     int
	PeriodMonth    int
	Actor          ActorSnapshot
	Action         string
	SubjectDetails map[string]any
	OccurredAt     time.Time
	Outcome        Outcome
	Error          *string
	DurationMs     int64
	Signature      []byte
	IsSigned       bool
}

// RecordInput contains what the caller knows about an attempted action.
type RecordInput struct {
	Actor          ActorSnapshot
	Action         string
	SubjectDetails map[string]any
	Outcome        Outcome
	Err            error
	Duration       time.Duration
}
