package models

import "time"

// PeriodStatus indicates whether a financial period accepts writes.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// FinancialPeriod is the persistence model for a financial period row.
type FinancialPeriod struct {
	PeriodID  string       `json:"periodID"` // Primary Key (UUID)
	Name      string       `json:"name"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	ClosedBy  *string      `json:"closedBy"` // Nullable; set on close
	ClosedAt  *time.Time   `json:"closedAt"`
	AuditFields
}
