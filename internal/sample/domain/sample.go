// Package domain defines laboratory samples, their lifecycle table and the
// events emitted when a sample changes status.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/sampletrack/internal/errors"
)

// HistoryEntry is one append-only step in a sample's status history.
// FromStatus is empty for the initial entry.
type HistoryEntry struct {
	Position   int64
	FromStatus Status
	Status     Status
	ActorID    string
	Timestamp  time.Time
}

// Sample is a tracked laboratory sample. Status always equals the status of
// the last history entry and Version always equals len(History).
type Sample struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Status    Status
	History   []HistoryEntry
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor is the user causing a status change.
type Actor struct {
	ID       string
	Name     string
	Role     string
	Document string
}

// StatusTransitionEvent describes an accepted status change. Version is the
// sample version after the change.
type StatusTransitionEvent struct {
	SampleID   uuid.UUID
	ClientID   uuid.UUID
	FromStatus Status
	ToStatus   Status
	ActorID    string
	Timestamp  time.Time
	Version    int64
}

// NewSample creates a sample in the received status with its initial history entry.
func NewSample(id, clientID uuid.UUID, actorID string, now time.Time) *Sample {
	return &Sample{
		ID:       id,
		ClientID: clientID,
		Status:   StatusReceived,
		History: []HistoryEntry{
			{Position: 1, Status: StatusReceived, ActorID: actorID, Timestamp: now},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the sample to target, appending exactly one history entry
// and bumping the version by one. The sample is left untouched on error.
func (s *Sample) Transition(target Status, actorID string, now time.Time) (*StatusTransitionEvent, error) {
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}
	if !s.Status.CanTransitionTo(target) {
		return nil, errors.Wrapf(ErrInvalidTransition, "cannot change status from %s to %s", s.Status, target)
	}

	from := s.Status
	s.Version++
	s.History = append(s.History, HistoryEntry{
		Position:   s.Version,
		FromStatus: from,
		Status:     target,
		ActorID:    actorID,
		Timestamp:  now,
	})
	s.Status = target
	s.UpdatedAt = now

	return &StatusTransitionEvent{
		SampleID:   s.ID,
		ClientID:   s.ClientID,
		FromStatus: from,
		ToStatus:   target,
		ActorID:    actorID,
		Timestamp:  now,
		Version:    s.Version,
	}, nil
}

// Clone returns a deep copy of the sample.
func (s *Sample) Clone() *Sample {
	clone := *s
	clone.History = append([]HistoryEntry(nil), s.History...)
	return &clone
}
