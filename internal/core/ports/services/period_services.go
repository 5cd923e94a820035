package services

import (
	"context"
	"time"

	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	"github.com/retailpos/backoffice_ledger/internal/dto"
)

// PeriodReaderSvc defines read operations for financial periods.
type PeriodReaderSvc interface {
	GetPeriodByID(ctx context.Context, periodID string) (*domain.FinancialPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.FinancialPeriod, error)

	// IsWritable reports whether the period exists and has open status.
	IsWritable(ctx context.Context, periodID string) (bool, error)
}

// PeriodManagerSvc defines lifecycle operations for financial periods.
type PeriodManagerSvc interface {
	// CreatePeriod validates the interval and persists a new period. Returns
	// apperrors.ErrPeriodOverlap when the interval intersects an existing
	// period (inclusive bounds).
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, creatorID string) (*domain.FinancialPeriod, error)

	// OpenPeriod transitions a closed period to open. Returns
	// apperrors.ErrPeriodAlreadyOpen when any other period is open.
	OpenPeriod(ctx context.Context, periodID string, requesterID string) (*domain.FinancialPeriod, error)

	// ClosePeriod transitions a period to closed recording closer and
	// timestamp. Closing an already-closed period is a no-op success so
	// retried requests do not fail.
	ClosePeriod(ctx context.Context, periodID string, requesterID string, closedAt time.Time) (*domain.FinancialPeriod, error)
}

// PeriodSvcFacade combines all period service interfaces.
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodManagerSvc
}
