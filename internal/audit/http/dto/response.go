// Package dto provides data transfer objects for audit record HTTP responses.
package dto

import (
	"time"

	auditDomain "github.com/allisson/sampletrack/internal/audit/domain"
)

// ActorResponse represents the actor snapshot of an audit record.
type ActorResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Document string `json:"document,omitempty"`
}

// AuditRecordResponse represents an audit record in API responses.
type AuditRecordResponse struct {
	ID             string         `json:"id"`
	PeriodYear     int            `json:"period_year"`
	PeriodMonth    int            `json:"period_month"`
	Actor          ActorResponse  `json:"actor"`
	Action         string         `json:"action"`
	SubjectDetails map[string]any `json:"subject_details,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
	Outcome        string         `json:"outcome"`
	Error          *string        `json:"error,omitempty"`
	DurationMs     int64          `json:"duration_ms"`
	IsSigned       bool           `json:"is_signed"`
}

// MapAuditRecordToResponse converts a domain audit record to an API response.
func MapAuditRecordToResponse(record *auditDomain.AuditRecord) AuditRecordResponse {
	return AuditRecordResponse{
		ID:          record.ID,
		PeriodYear:  record.PeriodYear,
		PeriodMonth: record.PeriodMonth,
		Actor: ActorResponse{
			ID:       record.Actor.ID,
			Name:     record.Actor.Name,
			Role:     record.Actor.Role,
			Document: record.Actor.Document,
		},
		Action:         record.Action,
		SubjectDetails: record.SubjectDetails,
		OccurredAt:     record.OccurredAt,
		Outcome:        string(record.Outcome),
		Error:          record.Error,
		DurationMs:     record.DurationMs,
		IsSigned:       record.IsSigned,
	}
}

// ListAuditRecordsResponse represents a page of audit records.
type ListAuditRecordsResponse struct {
	Data []AuditRecordResponse `json:"data"`
}

// MapAuditRecordsToListResponse converts domain audit records to a list API response.
func MapAuditRecordsToListResponse(records []*auditDomain.AuditRecord) ListAuditRecordsResponse {
	responses := make([]AuditRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, MapAuditRecordToResponse(record))
	}
	return ListAuditRecordsResponse{Data: responses}
}
