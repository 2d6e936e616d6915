package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/sampletrack/internal/audit/domain"
	auditRepository "github.com/allisson/sampletrack/internal/audit/repository"
	auditUseCase "github.com/allisson/sampletrack/internal/audit/usecase"
	"github.com/allisson/sampletrack/internal/database"
	deviceDomain "github.com/allisson/sampletrack/internal/device/domain"
	deviceRepository "github.com/allisson/sampletrack/internal/device/repository"
	deviceUseCase "github.com/allisson/sampletrack/internal/device/usecase"
	notificationDomain "github.com/allisson/sampletrack/internal/notification/domain"
	notificationUseCase "github.com/allisson/sampletrack/internal/notification/usecase"
	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
	sampleRepository "github.com/allisson/sampletrack/internal/sample/repository"
	sequenceRepository "github.com/allisson/sampletrack/internal/sequence/repository"
	sequenceUseCase "github.com/allisson/sampletrack/internal/sequence/usecase"
)

// recordingGateway delivers every send and remembers the tokens it saw.
type recordingGateway struct {
	mu     sync.Mutex
	tokens []string
}

func (g *recordingGateway) Send(
	_ context.Context,
	token string,
	_ *notificationDomain.Payload,
) (notificationDomain.DeliveryOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokens = append(g.tokens, token)
	return notificationDomain.DeliveryDelivered, nil
}

func (g *recordingGateway) sent() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.tokens...)
}

type memoryStack struct {
	samples  *sampleRepository.MemorySampleRepository
	audits   *auditRepository.MemoryAuditRepository
	devices  deviceUseCase.DeviceUseCase
	gateway  *recordingGateway
	sample   SampleUseCase
	status   StatusUseCase
	clientID uuid.UUID
}

func newMemoryStack(t *testing.T) *memoryStack {
	t.Helper()

	txManager := database.NewNoopTxManager()
	s := &memoryStack{
		samples:  sampleRepository.NewMemorySampleRepository(),
		audits:   auditRepository.NewMemoryAuditRepository(),
		gateway:  &recordingGateway{},
		clientID: uuid.Must(uuid.NewV7()),
	}

	sequence := sequenceUseCase.NewSequenceUseCase(
		txManager,
		sequenceRepository.NewMemoryCounterRepository(),
		nil,
	)
	audit := auditUseCase.NewAuditUseCase(auditUseCase.Config{}, sequence, s.audits, nil, nil, nil)
	s.devices = deviceUseCase.NewDeviceUseCase(deviceRepository.NewMemoryDeviceRepository(), nil)
	dispatcher := notificationUseCase.NewDispatchUseCase(
		notificationUseCase.Config{Concurrency: 2, SendTimeout: time.Second},
		s.devices,
		s.gateway,
		nil,
	)

	s.sample = NewSampleUseCase(txManager, s.samples)
	s.status = NewStatusUseCase(
		NewTransitionUseCase(txManager, s.samples, 0, nil),
		audit,
		dispatcher,
		s.samples,
		time.Second,
		nil,
	)
	return s
}

func (s *memoryStack) registerDevice(t *testing.T, token string) {
	t.Helper()

	_, err := s.devices.Register(context.Background(), &deviceDomain.RegisterDeviceInput{
		ClientID: s.clientID,
		Token:    token,
		Platform: deviceDomain.PlatformAndroid,
	})
	require.NoError(t, err)
}

func (s *memoryStack) createSample(t *testing.T) *sampleDomain.Sample {
	t.Helper()

	sample, err := s.sample.Create(context.Background(), &sampleDomain.CreateSampleInput{
		ClientID: s.clientID,
		Actor:    sampleDomain.Actor{ID: "reception-1", Name: "Bia", Role: "reception"},
	})
	require.NoError(t, err)
	return sample
}

func (s *memoryStack) auditRecords(t *testing.T) []*auditDomain.AuditRecord {
	t.Helper()

	records, err := s.audits.List(context.Background(), 0, 100, nil, nil)
	require.NoError(t, err)
	return records
}

func TestChangeStatus_MemoryStack(t *testing.T) {
	ctx := context.Background()
	analyst := sampleDomain.Actor{ID: "analyst-1", Name: "Caio", Role: "analyst", Document: "987"}

	t.Run("Success_AppliedChangeIsAuditedAndNotified", func(t *testing.T) {
		s := newMemoryStack(t)
		s.registerDevice(t, "ExponentPushToken[aaaaaaaa]")
		s.registerDevice(t, "ExponentPushToken[bbbbbbbb]")
		s.registerDevice(t, "ExponentPushToken[cccccccc]")
		s.registerDevice(t, "ExponentPushToken[dddddddd]")
		require.NoError(t, s.devices.Deactivate(ctx, "ExponentPushToken[dddddddd]"))
		sample := s.createSample(t)

		result, err := s.status.ChangeStatus(ctx, &sampleDomain.ChangeStatusInput{
			SampleID: sample.ID,
			Status:   sampleDomain.StatusInAnalysis,
			Actor:    analyst,
		})

		require.NoError(t, err)
		assert.Equal(t, sampleDomain.StatusReceived, result.PreviousStatus)
		assert.Equal(t, sampleDomain.StatusInAnalysis, result.NewStatus)
		assert.Equal(t, int64(2), result.Version)
		assert.Equal(t, "audit-001", result.AuditID)
		require.NoError(t, result.DispatchError)
		assert.Equal(t, 3, result.Dispatch.SentCount)
		assert.ElementsMatch(t, []string{
			"ExponentPushToken[aaaaaaaa]",
			"ExponentPushToken[bbbbbbbb]",
			"ExponentPushToken[cccccccc]",
		}, s.gateway.sent())

		stored, err := s.sample.Get(ctx, sample.ID)
		require.NoError(t, err)
		assert.Equal(t, sampleDomain.StatusInAnalysis, stored.Status)
		require.Len(t, stored.History, 2)
		assert.Equal(t, sampleDomain.StatusInAnalysis, stored.History[1].Status)
		assert.Equal(t, analyst.ID, stored.History[1].ActorID)

		records := s.auditRecords(t)
		require.Len(t, records, 1)
		assert.Equal(t, auditDomain.OutcomeSucceeded, records[0].Outcome)
		assert.Equal(t, "987", records[0].Actor.Document)
		assert.Equal(t, sample.ID.String(), records[0].SubjectDetails["sample_id"])
	})

	t.Run("Error_RejectedChangeLeavesSampleUntouched", func(t *testing.T) {
		s := newMemoryStack(t)
		s.registerDevice(t, "ExponentPushToken[aaaaaaaa]")
		sample := s.createSample(t)

		result, err := s.status.ChangeStatus(ctx, &sampleDomain.ChangeStatusInput{
			SampleID: sample.ID,
			Status:   sampleDomain.StatusFinalized,
			Actor:    analyst,
		})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, sampleDomain.ErrInvalidTransition)

		stored, err := s.sample.Get(ctx, sample.ID)
		require.NoError(t, err)
		assert.Equal(t, sampleDomain.StatusReceived, stored.Status)
		assert.Equal(t, int64(1), stored.Version)
		assert.Len(t, stored.History, 1)

		records := s.auditRecords(t)
		require.Len(t, records, 1)
		assert.Equal(t, auditDomain.OutcomeFailed, records[0].Outcome)
		require.NotNil(t, records[0].Error)
		assert.Contains(t, *records[0].Error, "cannot change status from received to finalized")
		assert.Empty(t, s.gateway.sent())
	})

	t.Run("Success_ConcurrentChangesApplyExactlyOnce", func(t *testing.T) {
		s := newMemoryStack(t)
		s.registerDevice(t, "ExponentPushToken[aaaaaaaa]")
		sample := s.createSample(t)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = s.status.ChangeStatus(ctx, &sampleDomain.ChangeStatusInput{
					SampleID: sample.ID,
					Status:   sampleDomain.StatusInAnalysis,
					Actor:    analyst,
				})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, sampleDomain.ErrInvalidTransition)
		}
		assert.Equal(t, 1, succeeded)

		stored, err := s.sample.Get(ctx, sample.ID)
		require.NoError(t, err)
		assert.Equal(t, sampleDomain.StatusInAnalysis, stored.Status)
		assert.Equal(t, int64(2), stored.Version)
		assert.Len(t, stored.History, 2)

		records := s.auditRecords(t)
		require.Len(t, records, 2)
		assert.ElementsMatch(t,
			[]auditDomain.Outcome{auditDomain.OutcomeSucceeded, auditDomain.OutcomeFailed},
			[]auditDomain.Outcome{records[0].Outcome, records[1].Outcome},
		)
		assert.Len(t, s.gateway.sent(), 1)
	})
}
