package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/sampletrack/internal/audit/domain"
	apperrors "github.com/allisson/sampletrack/internal/errors"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func newRecord(id string, occurredAt time.Time) *auditDomain.AuditRecord {
	return &auditDomain.AuditRecord{
		ID:             id,
		PeriodYear:     occurredAt.Year(),
		PeriodMonth:    int(occurredAt.Month()),
		Actor:          auditDomain.ActorSnapshot{ID: "user-1", Name: "Ana", Role: "analyst"},
		Action:         auditDomain.ActionSampleStatusChange,
		SubjectDetails: map[string]any{"sample_id": "s-1"},
		OccurredAt:     occurredAt,
		Outcome:        auditDomain.OutcomeSucceeded,
		DurationMs:     12,
	}
}

func auditRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "period_year", "period_month", "actor", "action", "subject_details", "occurred_at",
		"outcome", "error", "duration_ms", "signature", "is_signed",
	})
}

func TestListQuery(t *testing.T) {
	dollar := func(n int) string { return "$" + strconv.Itoa(n) }
	from := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.October, 31, 0, 0, 0, 0, time.UTC)

	t.Run("NoBounds", func(t *testing.T) {
		query, args := listQuery(dollar, 10, 50, nil, nil)

		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, "ORDER BY occurred_at DESC, id DESC LIMIT $1 OFFSET $2")
		assert.Equal(t, []any{50, 10}, args)
	})

	t.Run("BothBounds", func(t *testing.T) {
		query, args := listQuery(dollar, 0, 20, &from, &to)

		assert.Contains(t, query, "WHERE occurred_at >= $1 AND occurred_at <= $2")
		assert.Contains(t, query, "LIMIT $3 OFFSET $4")
		assert.Equal(t, []any{from, to, 20, 0}, args)
	})

	t.Run("UpperBoundOnly", func(t *testing.T) {
		query, args := listQuery(func(int) string { return "?" }, 0, 20, nil, &to)

		assert.Contains(t, query, "WHERE occurred_at <= ?")
		assert.Equal(t, []any{to, 20, 0}, args)
	})
}

func TestPostgreSQLAuditRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		record := newRecord("audit-001", now)

		mock.ExpectExec(`INSERT INTO audit_records`).
			WithArgs(
				"audit-001", 2026, 10,
				[]byte(`{"id":"user-1","name":"Ana","role":"analyst"}`),
				auditDomain.ActionSampleStatusChange,
				[]byte(`{"sample_id":"s-1"}`),
				now, "succeeded", nil, int64(12), []byte(nil), false,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLAuditRepository(db)
		require.NoError(t, repo.Create(ctx, record))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateKey", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec(`INSERT INTO audit_records`).WillReturnError(errors.New("duplicate key value"))

		repo := NewPostgreSQLAuditRepository(db)
		err := repo.Create(ctx, newRecord("audit-001", now))

		assert.ErrorContains(t, err, "failed to create audit record")
	})
}

func TestPostgreSQLAuditRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	from := now.Add(-time.Hour)

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		errMsg := "invalid transition"

		mock.ExpectQuery(`SELECT .* FROM audit_records WHERE occurred_at >= \$1 ORDER BY occurred_at DESC, id DESC LIMIT \$2 OFFSET \$3`).
			WithArgs(from, 50, 0).
			WillReturnRows(auditRows().
				AddRow("audit-002", 2026, 10, []byte(`{"id":"user-1","name":"Ana","role":"analyst"}`),
					auditDomain.ActionSampleStatusChange, nil, now, "failed", errMsg, int64(3), nil, false).
				AddRow("audit-001", 2026, 10, []byte(`{"id":"user-1","name":"Ana","role":"analyst"}`),
					auditDomain.ActionSampleStatusChange, []byte(`{"to":"received"}`), now.Add(-time.Minute),
					"succeeded", nil, int64(7), []byte{0x01, 0x02}, true))

		repo := NewPostgreSQLAuditRepository(db)
		records, err := repo.List(ctx, 0, 50, &from, nil)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "audit-002", records[0].ID)
		assert.Equal(t, auditDomain.OutcomeFailed, records[0].Outcome)
		require.NotNil(t, records[0].Error)
		assert.Equal(t, errMsg, *records[0].Error)
		assert.Nil(t, records[0].SubjectDetails)
		assert.Equal(t, "Ana", records[0].Actor.Name)
		assert.Equal(t, map[string]any{"to": "received"}, records[1].SubjectDetails)
		assert.True(t, records[1].IsSigned)
		assert.Equal(t, []byte{0x01, 0x02}, records[1].Signature)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_Empty", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT .* FROM audit_records ORDER BY`).
			WithArgs(10, 0).
			WillReturnRows(auditRows())

		repo := NewPostgreSQLAuditRepository(db)
		records, err := repo.List(ctx, 0, 10, nil, nil)

		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("Error_Query", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT .* FROM audit_records`).WillReturnError(errors.New("connection refused"))

		repo := NewPostgreSQLAuditRepository(db)
		records, err := repo.List(ctx, 0, 10, nil, nil)

		assert.Nil(t, records)
		assert.ErrorContains(t, err, "failed to list audit records")
	})

	t.Run("Error_CorruptActor", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT .* FROM audit_records`).
			WillReturnRows(auditRows().AddRow("audit-001", 2026, 10, []byte(`not-json`),
				auditDomain.ActionSampleStatusChange, nil, now, "succeeded", nil, int64(1), nil, false))

		repo := NewPostgreSQLAuditRepository(db)
		_, err := repo.List(ctx, 0, 10, nil, nil)

		assert.ErrorContains(t, err, "failed to unmarshal audit actor")
	})
}

func TestMySQLAuditRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	to := now.Add(time.Hour)

	t.Run("Success_Create", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec(`INSERT INTO audit_records .* VALUES \(\?, \?, \?, \?, \?, \?, \?, \?, \?, \?, \?, \?\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewMySQLAuditRepository(db)
		require.NoError(t, repo.Create(ctx, newRecord("audit-001", now)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_List", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT .* FROM audit_records WHERE occurred_at <= \? ORDER BY occurred_at DESC, id DESC LIMIT \? OFFSET \?`).
			WithArgs(to, 5, 5).
			WillReturnRows(auditRows().AddRow("audit-001", 2026, 10, []byte(`{"id":"user-1"}`),
				auditDomain.ActionSampleStatusChange, nil, now, "succeeded", nil, int64(1), nil, false))

		repo := NewMySQLAuditRepository(db)
		records, err := repo.List(ctx, 5, 5, nil, &to)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, now, records[0].OccurredAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_Create", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec(`INSERT INTO audit_records`).WillReturnError(errors.New("Duplicate entry"))

		repo := NewMySQLAuditRepository(db)
		assert.ErrorContains(t, repo.Create(ctx, newRecord("audit-001", now)), "failed to create audit record")
	})
}

func TestMemoryAuditRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Success_NewestFirstWithBounds", func(t *testing.T) {
		repo := NewMemoryAuditRepository()
		for i, id := range []string{"audit-001", "audit-002", "audit-003"} {
			require.NoError(t, repo.Create(ctx, newRecord(id, base.Add(time.Duration(i)*time.Minute))))
		}

		records, err := repo.List(ctx, 0, 10, nil, nil)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "audit-003", records[0].ID)
		assert.Equal(t, "audit-001", records[2].ID)

		from := base.Add(time.Minute)
		records, err = repo.List(ctx, 0, 10, &from, nil)
		require.NoError(t, err)
		assert.Len(t, records, 2)

		records, err = repo.List(ctx, 2, 10, nil, nil)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "audit-001", records[0].ID)

		records, err = repo.List(ctx, 10, 10, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Error_DuplicateIdentifierInPeriod", func(t *testing.T) {
		repo := NewMemoryAuditRepository()
		require.NoError(t, repo.Create(ctx, newRecord("audit-001", base)))

		err := repo.Create(ctx, newRecord("audit-001", base))
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		// Same identifier in another period is a different record.
		require.NoError(t, repo.Create(ctx, newRecord("audit-001", base.AddDate(0, 1, 0))))
	})

	t.Run("Success_ReturnsCopies", func(t *testing.T) {
		repo := NewMemoryAuditRepository()
		require.NoError(t, repo.Create(ctx, newRecord("audit-001", base)))

		records, err := repo.List(ctx, 0, 1, nil, nil)
		require.NoError(t, err)
		records[0].Outcome = auditDomain.OutcomeFailed

		records, err = repo.List(ctx, 0, 1, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, auditDomain.OutcomeSucceeded, records[0].Outcome)
	})
}
