package repositories

import (
	"context"
	"time"

	"github.com/retailpos/backoffice_ledger/internal/core/domain"
)

// PeriodReader defines read operations for financial period data.
type PeriodReader interface {
	// FindPeriodByID retrieves a specific period by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FinancialPeriod, error)

	// FindOverlappingPeriods retrieves every period whose closed [start, end]
	// interval intersects the given one. excludePeriodID, when non-empty, is
	// left out of the comparison (used when re-checking an existing period).
	FindOverlappingPeriods(ctx context.Context, start, end time.Time, excludePeriodID string) ([]domain.FinancialPeriod, error)

	// ListPeriods retrieves all periods ordered by start date descending.
	ListPeriods(ctx context.Context) ([]domain.FinancialPeriod, error)
}

// PeriodWriter defines write operations for financial period data.
type PeriodWriter interface {
	// SavePeriod persists a new period. Returns apperrors.ErrPeriodOverlap if
	// the storage-level interval constraint rejects it, and
	// apperrors.ErrPeriodAlreadyOpen if it is inserted with open status while
	// another open period exists.
	SavePeriod(ctx context.Context, period domain.FinancialPeriod) error

	// MarkPeriodOpen conditionally sets the period's status to open and
	// clears its closer fields. The check that no other period is open runs
	// atomically with the update; apperrors.ErrPeriodAlreadyOpen is returned
	// when another open period exists.
	MarkPeriodOpen(ctx context.Context, periodID string, updatedBy string, updatedAt time.Time) error

	// MarkPeriodClosed sets the period's status to closed and records the
	// closer identity and timestamp.
	MarkPeriodClosed(ctx context.Context, periodID string, closedBy string, closedAt time.Time) error
}

// PeriodRepositoryFacade combines all period repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
