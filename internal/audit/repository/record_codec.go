// Package repository implements audit record persistence for PostgreSQL, MySQL
// and in-process storage.
package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	auditDomain "github.com/allisson/sampletrack/internal/audit/domain"
	apperrors "github.com/allisson/sampletrack/internal/errors"
)

const auditColumns = `id, period_year, period_month, actor, action, subject_details, occurred_at,
			  outcome, error, duration_ms, signature, is_signed`

type rowScanner interface {
	Scan(dest ...any) error
}

func encodeRecord(record *auditDomain.AuditRecord) (actorJSON, detailsJSON []byte, err error) {
	actorJSON, err = json.Marshal(record.Actor)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal audit actor")
	}
	if record.SubjectDetails != nil {
		detailsJSON, err = json.Marshal(record.SubjectDetails)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, "failed to marshal audit subject details")
		}
	}
	return actorJSON, detailsJSON, nil
}

func scanRecord(scanner rowScanner) (*auditDomain.AuditRecord, error) {
	var record auditDomain.AuditRecord
	var actorJSON, detailsJSON []byte
	var outcome string

	err := scanner.Scan(
		&record.ID,
		&record.PeriodYear,
		&record.PeriodMonth,
		&actorJSON,
		&record.Action,
		&detailsJSON,
		&record.OccurredAt,
		&outcome,
		&record.Error,
		&record.DurationMs,
		&record.Signature,
		&record.IsSigned,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan audit record")
	}

	record.Outcome = auditDomain.Outcome(outcome)
	record.OccurredAt = record.OccurredAt.UTC()

	if err := json.Unmarshal(actorJSON, &record.Actor); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal audit actor")
	}
	if detailsJSON != nil {
		if err := json.Unmarshal(detailsJSON, &record.SubjectDetails); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit subject details")
		}
	}

	return &record, nil
}

// listQuery builds the newest-first listing with optional occurred_at bounds.
// placeholder renders the n-th (1-based) bind parameter for the dialect.
func listQuery(
	placeholder func(n int) string,
	offset, limit int,
	occurredFrom, occurredTo *time.Time,
) (string, []any) {
	var conditions []string
	var args []any

	if occurredFrom != nil {
		args = append(args, occurredFrom.UTC())
		conditions = append(conditions, "occurred_at >= "+placeholder(len(args)))
	}
	if occurredTo != nil {
		args = append(args, occurredTo.UTC())
		conditions = append(conditions, "occurred_at <= "+placeholder(len(args)))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + auditColumns + " FROM audit_records")
	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	args = append(args, limit, offset)
	fmt.Fprintf(&sb, " ORDER BY occurred_at DESC, id DESC LIMIT %s OFFSET %s",
		placeholder(len(args)-1), placeholder(len(args)))

	return sb.String(), args
}
