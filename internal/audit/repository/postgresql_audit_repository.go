package repository

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	auditDomain "github.com/allisson/sampletrack/internal/audit/domain"
	"github.com/allisson/sampletrack/internal/database"
	apperrors "github.com/allisson/sampletrack/internal/errors"
)

// PostgreSQLAuditRepository implements AuditRecord persistence for PostgreSQL.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// Create inserts a new audit record. Records are never updated.
func (p *PostgreSQLAuditRepository) Create(ctx context.Context, record *auditDomain.AuditRecord) error {
	querier := database.GetTx(ctx, p.db)

	actorJSON, detailsJSON, err := encodeRecord(record)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_records (` + auditColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.PeriodYear,
		record.PeriodMonth,
		actorJSON,
		record.Action,
		detailsJSON,
		record.OccurredAt,
		string(record.Outcome),
		record.Error,
		record.DurationMs,
		record.Signature,
		record.IsSigned,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit record")
	}

	return nil
}

// List retrieves audit records ordered by occurred_at descending.
func (p *PostgreSQLAuditRepository) List(
	ctx context.Context,
	offset, limit int,
	occurredFrom, occurredTo *time.Time,
) ([]*auditDomain.AuditRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query, args := listQuery(func(n int) string {
		return "$" + strconv.Itoa(n)
	}, offset, limit, occurredFrom, occurredTo)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit records")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*auditDomain.AuditRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit records")
	}

	return records, nil
}

// NewPostgreSQLAuditRepository creates a new PostgreSQL AuditRecord repository.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}
