package repository

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	deviceDomain "github.com/allisson/sampletrack/internal/device/domain"
)

type deviceKey struct {
	clientID uuid.UUID
	token    string
}

// MemoryDeviceRepository keeps device registrations in process memory.
type MemoryDeviceRepository struct {
	mu            sync.RWMutex
	registrations map[deviceKey]*deviceDomain.DeviceRegistration
}

// Upsert inserts the registration or reactivates the existing (client_id, token) entry.
func (m *MemoryDeviceRepository) Upsert(
	_ context.Context,
	registration *deviceDomain.DeviceRegistration,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := deviceKey{clientID: registration.ClientID, token: registration.Token}
	if existing, ok := m.registrations[key]; ok {
		existing.Platform = registration.Platform
		existing.IsActive = true
		existing.DeviceInfo = maps.Clone(registration.DeviceInfo)
		existing.LastUsedAt = registration.LastUsedAt

		registration.ID = existing.ID
		registration.CreatedAt = existing.CreatedAt
		registration.IsActive = true
		return nil
	}

	stored := *registration
	stored.IsActive = true
	stored.DeviceInfo = maps.Clone(registration.DeviceInfo)
	m.registrations[key] = &stored

	registration.IsActive = true
	return nil
}

// FindActiveByClient returns copies of the client's active registrations, oldest first.
func (m *MemoryDeviceRepository) FindActiveByClient(
	_ context.Context,
	clientID uuid.UUID,
) ([]*deviceDomain.DeviceRegistration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	registrations := make([]*deviceDomain.DeviceRegistration, 0)
	for key, registration := range m.registrations {
		if key.clientID != clientID || !registration.IsActive {
			continue
		}
		snapshot := *registration
		snapshot.DeviceInfo = maps.Clone(registration.DeviceInfo)
		registrations = append(registrations, &snapshot)
	}

	sort.Slice(registrations, func(i, j int) bool {
		if registrations[i].CreatedAt.Equal(registrations[j].CreatedAt) {
			return registrations[i].ID.String() < registrations[j].ID.String()
		}
		return registrations[i].CreatedAt.Before(registrations[j].CreatedAt)
	})

	return registrations, nil
}

// MarkInactive flags every registration holding the token as inactive.
func (m *MemoryDeviceRepository) MarkInactive(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, registration := range m.registrations {
		if key.token == token {
			registration.IsActive = false
		}
	}

	return nil
}

// NewMemoryDeviceRepository creates an empty in-memory DeviceRegistration repository.
func NewMemoryDeviceRepository() *MemoryDeviceRepository {
	return &MemoryDeviceRepository{
		registrations: make(map[deviceKey]*deviceDomain.DeviceRegistration),
	}
}
