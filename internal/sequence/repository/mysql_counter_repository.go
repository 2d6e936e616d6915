package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/sampletrack/internal/database"
	apperrors "github.com/allisson/sampletrack/internal/errors"
	sequenceDomain "github.com/allisson/sampletrack/internal/sequence/domain"
)

// MySQLCounterRepository implements Counter persistence for MySQL.
//
// MySQL has no RETURNING clause, so the increment runs as an upsert followed by
// a read of the same row. Both statements must share the transaction opened by
// the caller: the upsert keeps the row locked until commit, which makes the
// pair atomic with respect to other callers.
type MySQLCounterRepository struct {
	db *sql.DB
}

// AtomicIncrement upserts the counter row and reads back its new state.
//
// ON DUPLICATE KEY UPDATE assigns columns left to right, each seeing the values
// already assigned. current_value is computed first against the stored period;
// it can only become 1 through a reset (existing rows hold at least 1), so the
// period columns follow that decision.
func (m *MySQLCounterRepository) AtomicIncrement(
	ctx context.Context,
	name string,
	period sequenceDomain.Period,
) (*sequenceDomain.Counter, error) {
	querier := database.GetTx(ctx, m.db)

	upsert := `INSERT INTO sequence_counters (name, current_value, period_month, period_year, updated_at)
			   VALUES (?, 1, ?, ?, ?)
			   ON DUPLICATE KEY UPDATE
				   current_value = IF(
					   VALUES(period_year) * 100 + VALUES(period_month) > period_year * 100 + period_month,
					   1, current_value + 1),
				   period_month = IF(current_value = 1, VALUES(period_month), period_month),
				   period_year = IF(current_value = 1, VALUES(period_year), period_year),
				   updated_at = VALUES(updated_at)`

	if _, err := querier.ExecContext(ctx, upsert, name, period.Month, period.Year, time.Now().UTC()); err != nil {
		return nil, apperrors.Wrap(err, "failed to increment counter")
	}

	query := `SELECT current_value, period_month, period_year, updated_at
			  FROM sequence_counters WHERE name = ?`

	counter := sequenceDomain.Counter{Name: name}

	err := querier.QueryRowContext(ctx, query, name).Scan(
		&counter.CurrentValue,
		&counter.PeriodMonth,
		&counter.PeriodYear,
		&counter.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read counter")
	}

	return &counter, nil
}

// NewMySQLCounterRepository creates a new MySQL Counter repository.
func NewMySQLCounterRepository(db *sql.DB) *MySQLCounterRepository {
	return &MySQLCounterRepository{db: db}
}
