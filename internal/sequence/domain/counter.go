// Package domain defines period-scoped sequence counters used to mint
// human-readable identifiers.
package domain

import (
	"fmt"
	"time"
)

// AuditCounterName is the counter that numbers audit records.
const AuditCounterName = "auditId"

// Period is the calendar window a counter value belongs to.
type Period struct {
	Year  int
	Month int
}

// PeriodOf returns the UTC (year, month) period containing t.
func PeriodOf(t time.Time) Period {
	utc := t.UTC()
	return Period{Year: utc.Year(), Month: int(utc.Month())}
}

// String renders the period as YYYYMM.
func (p Period) String() string {
	return fmt.Sprintf("%04d%02d", p.Year, p.Month)
}

// After reports whether p is a later calendar period than other.
func (p Period) After(other Period) bool {
	if p.Year != other.Year {
		return p.Year > other.Year
	}
	return p.Month > other.Month
}

// Counter is the persisted state of a named sequence. CurrentValue is unique
// and strictly increasing within one period and restarts at 1 on rollover.
type Counter struct {
	Name         string
	CurrentValue int64
	PeriodMonth  int
	PeriodYear   int
	UpdatedAt    time.Time
}

// Period returns the period the current value was minted in.
func (c *Counter) Period() Period {
	return Period{Year: c.PeriodYear, Month: c.PeriodMonth}
}

// Advance applies one increment for the given period. The value resets to 1
// only when period is later than the stored one. A caller arriving with an
// older period (it read the clock before a rollover committed) increments
// within the stored period, so the stored period never moves backwards.
func (c *Counter) Advance(period Period, now time.Time) {
	if period.After(c.Period()) {
		c.CurrentValue = 1
		c.PeriodYear = period.Year
		c.PeriodMonth = period.Month
	} else {
		c.CurrentValue++
	}
	c.UpdatedAt = now
}

// FormatIdentifier builds the human-readable identifier for a counter value,
// e.g. "audit-007". Values are zero padded to three digits; larger values keep
// every digit. With includePeriod the period is embedded ("audit-202610-007"),
// which makes identifiers unique across periods.
func FormatIdentifier(prefix string, counter *Counter, includePeriod bool) string {
	if includePeriod {
		return fmt.Sprintf("%s-%s-%03d", prefix, counter.Period(), counter.CurrentValue)
	}
	return fmt.Sprintf("%s-%03d", prefix, counter.CurrentValue)
}
