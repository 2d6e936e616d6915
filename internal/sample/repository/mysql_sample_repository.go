package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/sampletrack/internal/database"
	apperrors "github.com/allisson/sampletrack/internal/errors"
	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
)

// MySQLSampleRepository implements Sample persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLSampleRepository struct {
	db *sql.DB
}

// Create inserts the sample row and its initial history.
func (m *MySQLSampleRepository) Create(ctx context.Context, sample *sampleDomain.Sample) error {
	querier := database.GetTx(ctx, m.db)

	id, err := sample.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal sample id")
	}

	clientID, err := sample.ClientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal sample client_id")
	}

	query := `INSERT INTO samples (id, client_id, status, version, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		clientID,
		string(sample.Status),
		sample.Version,
		sample.CreatedAt,
		sample.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create sample")
	}

	return m.insertHistory(ctx, querier, id, sample.History)
}

// Get loads the sample and its history ordered by position.
func (m *MySQLSampleRepository) Get(ctx context.Context, id uuid.UUID) (*sampleDomain.Sample, error) {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal sample id")
	}

	var sample sampleDomain.Sample
	var storedID, clientID []byte
	var status string

	query := `SELECT id, client_id, status, version, created_at, updated_at FROM samples WHERE id = ?`

	err = querier.QueryRowContext(ctx, query, idBinary).Scan(
		&storedID,
		&clientID,
		&status,
		&sample.Version,
		&sample.CreatedAt,
		&sample.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sampleDomain.ErrSampleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get sample")
	}

	if err := sample.ID.UnmarshalBinary(storedID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal sample id")
	}
	if err := sample.ClientID.UnmarshalBinary(clientID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal sample client_id")
	}
	sample.Status = sampleDomain.Status(status)

	historyQuery := `SELECT position, from_status, status, actor_id, created_at
					 FROM sample_history
					 WHERE sample_id = ?
					 ORDER BY position ASC`

	rows, err := querier.QueryContext(ctx, historyQuery, idBinary)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get sample history")
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var entry sampleDomain.HistoryEntry
		var fromStatus sql.NullString
		var entryStatus string

		if err := rows.Scan(&entry.Position, &fromStatus, &entryStatus, &entry.ActorID, &entry.Timestamp); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan sample history")
		}

		entry.FromStatus = fromNullStatus(fromStatus)
		entry.Status = sampleDomain.Status(entryStatus)
		sample.History = append(sample.History, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate sample history")
	}

	return &sample, nil
}

// SaveWithVersionCheck updates the sample only when the stored version equals
// expectedVersion and appends the new history entries.
func (m *MySQLSampleRepository) SaveWithVersionCheck(
	ctx context.Context,
	sample *sampleDomain.Sample,
	expectedVersion int64,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := sample.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal sample id")
	}

	query := `UPDATE samples SET status = ?, version = ?, updated_at = ?
			  WHERE id = ? AND version = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		string(sample.Status),
		sample.Version,
		sample.UpdatedAt,
		id,
		expectedVersion,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update sample")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return sampleDomain.ErrConcurrencyConflict
	}

	return m.insertHistory(ctx, querier, id, pendingEntries(sample, expectedVersion))
}

// ResolveClientID returns the client that owns the sample.
func (m *MySQLSampleRepository) ResolveClientID(ctx context.Context, sampleID uuid.UUID) (uuid.UUID, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := sampleID.MarshalBinary()
	if err != nil {
		return uuid.Nil, apperrors.Wrap(err, "failed to marshal sample id")
	}

	var clientIDBinary []byte
	err = querier.QueryRowContext(ctx, `SELECT client_id FROM samples WHERE id = ?`, id).Scan(&clientIDBinary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, sampleDomain.ErrSampleNotFound
		}
		return uuid.Nil, apperrors.Wrap(err, "failed to resolve sample client")
	}

	var clientID uuid.UUID
	if err := clientID.UnmarshalBinary(clientIDBinary); err != nil {
		return uuid.Nil, apperrors.Wrap(err, "failed to unmarshal sample client_id")
	}

	return clientID, nil
}

func (m *MySQLSampleRepository) insertHistory(
	ctx context.Context,
	querier database.Querier,
	sampleID []byte,
	entries []sampleDomain.HistoryEntry,
) error {
	query := `INSERT INTO sample_history (sample_id, position, from_status, status, actor_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	for _, entry := range entries {
		_, err := querier.ExecContext(
			ctx,
			query,
			sampleID,
			entry.Position,
			nullableStatus(entry.FromStatus),
			string(entry.Status),
			entry.ActorID,
			entry.Timestamp,
		)
		if err != nil {
			return apperrors.Wrap(err, "failed to append sample history")
		}
	}

	return nil
}

// NewMySQLSampleRepository creates a new MySQL Sample repository.
func NewMySQLSampleRepository(db *sql.DB) *MySQLSampleRepository {
	return &MySQLSampleRepository{db: db}
}
