package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/allisson/sampletrack/internal/errors"
	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
)

// MemorySampleRepository keeps samples in process memory. Stored and returned
// samples are copies, so callers never share history slices with the store.
type MemorySampleRepository struct {
	mu      sync.RWMutex
	samples map[uuid.UUID]*sampleDomain.Sample
}

// Create stores a copy of the sample.
func (r *MemorySampleRepository) Create(_ context.Context, sample *sampleDomain.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.samples[sample.ID]; exists {
		return apperrors.Wrap(apperrors.ErrConflict, "sample already exists")
	}

	r.samples[sample.ID] = sample.Clone()
	return nil
}

// Get returns a copy of the stored sample.
func (r *MemorySampleRepository) Get(_ context.Context, id uuid.UUID) (*sampleDomain.Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sample, ok := r.samples[id]
	if !ok {
		return nil, sampleDomain.ErrSampleNotFound
	}
	return sample.Clone(), nil
}

// SaveWithVersionCheck replaces the stored sample when its version equals expectedVersion.
func (r *MemorySampleRepository) SaveWithVersionCheck(
	_ context.Context,
	sample *sampleDomain.Sample,
	expectedVersion int64,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.samples[sample.ID]
	if !ok {
		return sampleDomain.ErrSampleNotFound
	}
	if stored.Version != expectedVersion {
		return sampleDomain.ErrConcurrencyConflict
	}

	r.samples[sample.ID] = sample.Clone()
	return nil
}

// ResolveClientID returns the client that owns the sample.
func (r *MemorySampleRepository) ResolveClientID(_ context.Context, sampleID uuid.UUID) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sample, ok := r.samples[sampleID]
	if !ok {
		return uuid.Nil, sampleDomain.ErrSampleNotFound
	}
	return sample.ClientID, nil
}

// NewMemorySampleRepository creates an empty in-memory Sample repository.
func NewMemorySampleRepository() *MemorySampleRepository {
	return &MemorySampleRepository{samples: make(map[uuid.UUID]*sampleDomain.Sample)}
}
