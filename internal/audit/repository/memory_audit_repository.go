package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	auditDomain "github.com/allisson/sampletrack/internal/audit/domain"
	apperrors "github.com/allisson/sampletrack/internal/errors"
)

type recordKey struct {
	id          string
	periodYear  int
	periodMonth int
}

// MemoryAuditRepository keeps audit records in process memory.
type MemoryAuditRepository struct {
	mu      sync.RWMutex
	keys    map[recordKey]struct{}
	records []*auditDomain.AuditRecord
}

// Create appends a copy of the record. The (id, period) pair must be unique.
func (r *MemoryAuditRepository) Create(_ context.Context, record *auditDomain.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey{id: record.ID, periodYear: record.PeriodYear, periodMonth: record.PeriodMonth}
	if _, exists := r.keys[key]; exists {
		return apperrors.Wrap(
			apperrors.ErrConflict,
			fmt.Sprintf("audit record %s already exists for %04d-%02d", record.ID, record.PeriodYear, record.PeriodMonth),
		)
	}

	r.keys[key] = struct{}{}
	stored := *record
	r.records = append(r.records, &stored)
	return nil
}

// List returns copies ordered by occurred_at descending.
func (r *MemoryAuditRepository) List(
	_ context.Context,
	offset, limit int,
	occurredFrom, occurredTo *time.Time,
) ([]*auditDomain.AuditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*auditDomain.AuditRecord, 0, len(r.records))
	for _, record := range r.records {
		if occurredFrom != nil && record.OccurredAt.Before(*occurredFrom) {
			continue
		}
		if occurredTo != nil && record.OccurredAt.After(*occurredTo) {
			continue
		}
		stored := *record
		matched = append(matched, &stored)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].OccurredAt.Equal(matched[j].OccurredAt) {
			return matched[i].OccurredAt.After(matched[j].OccurredAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if offset >= len(matched) {
		return []*auditDomain.AuditRecord{}, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], nil
}

// NewMemoryAuditRepository creates an empty in-memory AuditRecord repository.
func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{keys: make(map[recordKey]struct{})}
}
