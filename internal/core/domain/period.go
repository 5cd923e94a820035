package domain

import "time"

// PeriodStatus indicates whether a financial period accepts writes.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// FinancialPeriod is a non-overlapping date range that gates whether
// transactions may be created or mutated. At most one period is OPEN at any
// time; that invariant is enforced at the storage layer, not here.
type FinancialPeriod struct {
	PeriodID  string       `json:"periodID"` // Primary Key (UUID)
	Name      string       `json:"name"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	ClosedBy  *string      `json:"closedBy,omitempty"` // Set on close, cleared on reopen
	ClosedAt  *time.Time   `json:"closedAt,omitempty"`
	AuditFields
}

// IsWritable reports whether the period accepts transaction writes.
func (p *FinancialPeriod) IsWritable() bool {
	return p.Status == PeriodOpen
}

// Overlaps reports whether the closed intervals [p.StartDate, p.EndDate] and
// [start, end] intersect. Bounds are inclusive: a period ending on a date
// conflicts with one starting that same date.
func (p *FinancialPeriod) Overlaps(start, end time.Time) bool {
	return !p.StartDate.After(end) && !start.After(p.EndDate)
}
