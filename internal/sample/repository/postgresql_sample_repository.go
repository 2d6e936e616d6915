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

// PostgreSQLSampleRepository implements Sample persistence for PostgreSQL.
type PostgreSQLSampleRepository struct {
	db *sql.DB
}

// Create inserts the sample row and its initial history.
func (p *PostgreSQLSampleRepository) Create(ctx context.Context, sample *sampleDomain.Sample) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO samples (id, client_id, status, version, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		sample.ID,
		sample.ClientID,
		string(sample.Status),
		sample.Version,
		sample.CreatedAt,
		sample.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create sample")
	}

	return p.insertHistory(ctx, querier, sample.ID, sample.History)
}

// Get loads the sample and its history ordered by position.
func (p *PostgreSQLSampleRepository) Get(ctx context.Context, id uuid.UUID) (*sampleDomain.Sample, error) {
	querier := database.GetTx(ctx, p.db)

	var sample sampleDomain.Sample
	var status string

	query := `SELECT id, client_id, status, version, created_at, updated_at FROM samples WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&sample.ID,
		&sample.ClientID,
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
	sample.Status = sampleDomain.Status(status)

	historyQuery := `SELECT position, from_status, status, actor_id, created_at
					 FROM sample_history
					 WHERE sample_id = $1
					 ORDER BY position ASC`

	rows, err := querier.QueryContext(ctx, historyQuery, id)
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
// expectedVersion and appends the new history entries. Callers run it inside
// a transaction so the update and the appends commit together.
func (p *PostgreSQLSampleRepository) SaveWithVersionCheck(
	ctx context.Context,
	sample *sampleDomain.Sample,
	expectedVersion int64,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE samples SET status = $1, version = $2, updated_at = $3
			  WHERE id = $4 AND version = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		string(sample.Status),
		sample.Version,
		sample.UpdatedAt,
		sample.ID,
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

	return p.insertHistory(ctx, querier, sample.ID, pendingEntries(sample, expectedVersion))
}

// ResolveClientID returns the client that owns the sample.
func (p *PostgreSQLSampleRepository) ResolveClientID(ctx context.Context, sampleID uuid.UUID) (uuid.UUID, error) {
	querier := database.GetTx(ctx, p.db)

	var clientID uuid.UUID
	err := querier.QueryRowContext(ctx, `SELECT client_id FROM samples WHERE id = $1`, sampleID).Scan(&clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, sampleDomain.ErrSampleNotFound
		}
		return uuid.Nil, apperrors.Wrap(err, "failed to resolve sample client")
	}

	return clientID, nil
}

func (p *PostgreSQLSampleRepository) insertHistory(
	ctx context.Context,
	querier database.Querier,
	sampleID uuid.UUID,
	entries []sampleDomain.HistoryEntry,
) error {
	query := `INSERT INTO sample_history (sample_id, position, from_status, status, actor_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

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

// NewPostgreSQLSampleRepository creates a new PostgreSQL Sample repository.
func NewPostgreSQLSampleRepository(db *sql.DB) *PostgreSQLSampleRepository {
	return &PostgreSQLSampleRepository{db: db}
}
