// Package repository implements sequence counter persistence for PostgreSQL, MySQL and memory.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/sampletrack/internal/database"
	apperrors "github.com/allisson/sampletrack/internal/errors"
	sequenceDomain "github.com/allisson/sampletrack/internal/sequence/domain"
)

// PostgreSQLCounterRepository implements Counter persistence for PostgreSQL.
type PostgreSQLCounterRepository struct {
	db *sql.DB
}

// AtomicIncrement upserts the counter row and returns the new state in one
// statement. The row lock taken by ON CONFLICT serializes concurrent callers.
// The value resets only when the incoming period is later than the stored one;
// an older incoming period increments within the stored period.
func (p *PostgreSQLCounterRepository) AtomicIncrement(
	ctx context.Context,
	name string,
	period sequenceDomain.Period,
) (*sequenceDomain.Counter, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO sequence_counters (name, current_value, period_month, period_year, updated_at)
			  VALUES ($1, 1, $2, $3, $4)
			  ON CONFLICT (name) DO UPDATE SET
				  current_value = CASE
					  WHEN (EXCLUDED.period_year, EXCLUDED.period_month)
						 > (sequence_counters.period_year, sequence_counters.period_month)
					  THEN 1
					  ELSE sequence_counters.current_value + 1
				  END,
				  period_month = CASE
					  WHEN (EXCLUDED.period_year, EXCLUDED.period_month)
						 > (sequence_counters.period_year, sequence_counters.period_month)
					  THEN EXCLUDED.period_month
					  ELSE sequence_counters.period_month
				  END,
				  period_year = GREATEST(sequence_counters.period_year, EXCLUDED.period_year),
				  updated_at = EXCLUDED.updated_at
			  RETURNING current_value, period_month, period_year, updated_at`

	counter := sequenceDomain.Counter{Name: name}

	err := querier.QueryRowContext(
		ctx,
		query,
		name,
		period.Month,
		period.Year,
		time.Now().UTC(),
	).Scan(
		&counter.CurrentValue,
		&counter.PeriodMonth,
		&counter.PeriodYear,
		&counter.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to increment counter")
	}

	return &counter, nil
}

// NewPostgreSQLCounterRepository creates a new PostgreSQL Counter repository.
func NewPostgreSQLCounterRepository(db *sql.DB) *PostgreSQLCounterRepository {
	return &PostgreSQLCounterRepository{db: db}
}
