// Package repository implements sample persistence for PostgreSQL, MySQL and
// in-process storage. Every repository also serves as the ClientDirectory.
package repository

import (
	"database/sql"

	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
)

// nullableStatus stores the empty FromStatus of an initial entry as NULL.
func nullableStatus(status sampleDomain.Status) any {
	if status == "" {
		return nil
	}
	return string(status)
}

// pendingEntries returns the history entries appended after expectedVersion.
func pendingEntries(sample *sampleDomain.Sample, expectedVersion int64) []sampleDomain.HistoryEntry {
	if expectedVersion < 0 || expectedVersion > int64(len(sample.History)) {
		return nil
	}
	return sample.History[expectedVersion:]
}

func fromNullStatus(value sql.NullString) sampleDomain.Status {
	if !value.Valid {
		return ""
	}
	return sampleDomain.Status(value.String)
}
