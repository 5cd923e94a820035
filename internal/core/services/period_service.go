package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backoffice_ledger/internal/apperrors"
	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/retailpos/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/retailpos/backoffice_ledger/internal/core/ports/services"
	"github.com/retailpos/backoffice_ledger/internal/dto"
	"github.com/retailpos/backoffice_ledger/internal/middleware"
)

// periodService enforces the financial period invariants: intervals never
// overlap, at most one period is open, closed periods reject writes.
type periodService struct {
	periodRepo portsrepo.PeriodRepositoryFacade
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade) portssvc.PeriodSvcFacade {
	return &periodService{
		periodRepo: periodRepo,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// CreatePeriod validates the proposed interval against all existing periods
// and persists the new period. Overlap is checked on inclusive bounds; the
// storage layer re-enforces it with an interval constraint so a concurrent
// create cannot slip through between check and insert.
func (s *periodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, creatorID string) (*domain.FinancialPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Name == "" {
		return nil, fmt.Errorf("%w: period name is required", apperrors.ErrValidation)
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, fmt.Errorf("%w: period start date must be before end date", apperrors.ErrValidation)
	}

	overlapping, err := s.periodRepo.FindOverlappingPeriods(ctx, req.StartDate, req.EndDate, "")
	if err != nil {
		logger.Error("Failed to check for overlapping periods", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check for overlapping periods: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, fmt.Errorf("%w: interval intersects period %q", apperrors.ErrPeriodOverlap, overlapping[0].Name)
	}

	now := time.Now().UTC()
	status := domain.PeriodClosed
	if req.Open {
		status = domain.PeriodOpen
	}

	period := domain.FinancialPeriod{
		PeriodID:  uuid.NewString(),
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	// SavePeriod can still reject with ErrPeriodOverlap or, when created
	// open, ErrPeriodAlreadyOpen; the storage constraints are the source of
	// truth under concurrency.
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		if errors.Is(err, apperrors.ErrPeriodOverlap) || errors.Is(err, apperrors.ErrPeriodAlreadyOpen) {
			return nil, err
		}
		logger.Error("Failed to save period", slog.String("error", err.Error()), slog.String("period_name", req.Name))
		return nil, fmt.Errorf("failed to save period: %w", err)
	}

	logger.Info("Financial period created", slog.String("period_id", period.PeriodID), slog.String("status", string(period.Status)))
	return &period, nil
}

// OpenPeriod transitions a closed period back to open. Opening an
// already-open period is a no-op success; opening while any other period is
// open fails with ErrPeriodAlreadyOpen, checked atomically by the
// repository's conditional write.
func (s *periodService) OpenPeriod(ctx context.Context, periodID string, requesterID string) (*domain.FinancialPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}

	if period.Status == domain.PeriodOpen {
		logger.Debug("Period already open, nothing to do", slog.String("period_id", periodID))
		return period, nil
	}

	now := time.Now().UTC()
	if err := s.periodRepo.MarkPeriodOpen(ctx, periodID, requesterID, now); err != nil {
		if errors.Is(err, apperrors.ErrPeriodAlreadyOpen) {
			logger.Warn("Open rejected, another period is already open", slog.String("period_id", periodID))
			return nil, err
		}
		logger.Error("Failed to open period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to open period %s: %w", periodID, err)
	}

	period.Status = domain.PeriodOpen
	period.ClosedBy = nil
	period.ClosedAt = nil
	period.LastUpdatedAt = now
	period.LastUpdatedBy = requesterID

	logger.Info("Financial period opened", slog.String("period_id", periodID))
	return period, nil
}

// ClosePeriod transitions a period to closed, recording the closer identity
// and timestamp. Closing an already-closed period returns the stored state
// unchanged so retried requests succeed with the original closer and
// timestamp.
func (s *periodService) ClosePeriod(ctx context.Context, periodID string, requesterID string, closedAt time.Time) (*domain.FinancialPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}

	if period.Status == domain.PeriodClosed {
		logger.Debug("Period already closed, returning stored state", slog.String("period_id", periodID))
		return period, nil
	}

	if closedAt.IsZero() {
		closedAt = time.Now().UTC()
	}

	if err := s.periodRepo.MarkPeriodClosed(ctx, periodID, requesterID, closedAt); err != nil {
		logger.Error("Failed to close period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to close period %s: %w", periodID, err)
	}

	period.Status = domain.PeriodClosed
	period.ClosedBy = &requesterID
	period.ClosedAt = &closedAt
	period.LastUpdatedAt = closedAt
	period.LastUpdatedBy = requesterID

	logger.Info("Financial period closed", slog.String("period_id", periodID), slog.String("closed_by", requesterID))
	return period, nil
}

// IsWritable reports whether the period exists and has open status. A
// missing period is simply not writable, not an error.
func (s *periodService) IsWritable(ctx context.Context, periodID string) (bool, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return period.IsWritable(), nil
}

// GetPeriodByID retrieves a specific financial period.
func (s *periodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.FinancialPeriod, error) {
	return s.periodRepo.FindPeriodByID(ctx, periodID)
}

// ListPeriods retrieves all financial periods.
func (s *periodService) ListPeriods(ctx context.Context) ([]domain.FinancialPeriod, error) {
	return s.periodRepo.ListPeriods(ctx)
}
