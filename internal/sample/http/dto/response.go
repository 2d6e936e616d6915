package dto

import (
	"time"

	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
)

// HistoryEntryResponse represents one status history step in API responses.
type HistoryEntryResponse struct {
	Position   int64     `json:"position"`
	FromStatus string    `json:"from_status,omitempty"`
	Status     string    `json:"status"`
	ActorID    string    `json:"actor_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// SampleResponse represents a sample in API responses.
type SampleResponse struct {
	ID        string                 `json:"id"`
	ClientID  string                 `json:"client_id"`
	Status    string                 `json:"status"`
	Version   int64                  `json:"version"`
	History   []HistoryEntryResponse `json:"history"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// MapSampleToResponse converts a domain sample to an API response.
func MapSampleToResponse(sample *sampleDomain.Sample) SampleResponse {
	history := make([]HistoryEntryResponse, 0, len(sample.History))
	for _, entry := range sample.History {
		history = append(history, HistoryEntryResponse{
			Position:   entry.Position,
			FromStatus: string(entry.FromStatus),
			Status:     string(entry.Status),
			ActorID:    entry.ActorID,
			Timestamp:  entry.Timestamp,
		})
	}

	return SampleResponse{
		ID:        sample.ID.String(),
		ClientID:  sample.ClientID.String(),
		Status:    string(sample.Status),
		Version:   sample.Version,
		History:   history,
		CreatedAt: sample.CreatedAt,
		UpdatedAt: sample.UpdatedAt,
	}
}

// DispatchResponse summarizes the notification fan-out of a status change.
type DispatchResponse struct {
	SentCount         int      `json:"sent_count"`
	FailedCount       int      `json:"failed_count"`
	DeactivatedTokens []string `json:"deactivated_tokens"`
	Error             string   `json:"error,omitempty"`
}

// ChangeStatusResponse represents the outcome of an applied status change.
// AuditID is empty when the audit record could not be written.
type ChangeStatusResponse struct {
	SampleID       string            `json:"sample_id"`
	PreviousStatus string            `json:"previous_status"`
	NewStatus      string            `json:"new_status"`
	Version        int64             `json:"version"`
	AuditID        string            `json:"audit_id,omitempty"`
	Dispatch       *DispatchResponse `json:"dispatch,omitempty"`
}

// MapOrchestrationToResponse converts an orchestration result to an API response.
func MapOrchestrationToResponse(result *sampleDomain.OrchestrationResult) ChangeStatusResponse {
	response := ChangeStatusResponse{
		SampleID:       result.SampleID.String(),
		PreviousStatus: string(result.PreviousStatus),
		NewStatus:      string(result.NewStatus),
		Version:        result.Version,
		AuditID:        result.AuditID,
	}

	if result.Dispatch != nil || result.DispatchError != nil {
		dispatch := &DispatchResponse{DeactivatedTokens: []string{}}
		if result.Dispatch != nil {
			dispatch.SentCount = result.Dispatch.SentCount
			dispatch.FailedCount = result.Dispatch.FailedCount
			if result.Dispatch.DeactivatedTokens != nil {
				dispatch.DeactivatedTokens = result.Dispatch.DeactivatedTokens
			}
		}
		if result.DispatchError != nil {
			dispatch.Error = result.DispatchError.Error()
		}
		response.Dispatch = dispatch
	}

	return response
}
