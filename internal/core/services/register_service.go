package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backoffice_ledger/internal/apperrors"
	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/retailpos/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/retailpos/backoffice_ledger/internal/core/ports/services"
	"github.com/retailpos/backoffice_ledger/internal/dto"
	"github.com/retailpos/backoffice_ledger/internal/middleware"
)

// registerService reconciles cash-register sessions: it tracks expected
// balances per payment method over a shift and compares them to the
// physical count at close. Discrepant sessions go through a resolution
// workflow before they are considered settled.
type registerService struct {
	registerRepo portsrepo.RegisterRepositoryFacade
}

// NewRegisterService creates a new RegisterService.
func NewRegisterService(registerRepo portsrepo.RegisterRepositoryFacade) portssvc.RegisterSvcFacade {
	return &registerService{
		registerRepo: registerRepo,
	}
}

var _ portssvc.RegisterSvcFacade = (*registerService)(nil)

func validateBalances(balances map[domain.PaymentMethod]decimal.Decimal) error {
	if len(balances) == 0 {
		return fmt.Errorf("%w: at least one payment method balance is required", apperrors.ErrValidation)
	}
	for m, v := range balances {
		if !domain.ValidPaymentMethod(m) {
			return fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, m)
		}
		if v.IsNegative() {
			return fmt.Errorf("%w: balance for %s must not be negative", apperrors.ErrValidation, m)
		}
	}
	return nil
}

// OpenSession starts a cash-drawer shift with current = expected = opening
// for every payment method present.
func (s *registerService) OpenSession(ctx context.Context, req dto.OpenSessionRequest, openerID string) (*domain.RegisterSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.RegisterName == "" {
		return nil, fmt.Errorf("%w: register name is required", apperrors.ErrValidation)
	}
	if err := validateBalances(req.OpeningBalances); err != nil {
		return nil, err
	}

	opening := domain.BalanceMap(req.OpeningBalances)
	session := domain.RegisterSession{
		SessionID:        uuid.NewString(),
		RegisterName:     req.RegisterName,
		Status:           domain.SessionOpen,
		OpenedBy:         openerID,
		OpenedAt:         time.Now().UTC(),
		OpeningBalances:  opening.Clone(),
		ExpectedBalances: opening.Clone(),
		CurrentBalances:  opening.Clone(),
		Version:          1,
	}

	if err := s.registerRepo.SaveSession(ctx, session); err != nil {
		logger.Error("Failed to save register session", slog.String("error", err.Error()), slog.String("register", req.RegisterName))
		return nil, fmt.Errorf("failed to save register session: %w", err)
	}

	logger.Info("Register session opened", slog.String("session_id", session.SessionID), slog.String("register", req.RegisterName))
	return &session, nil
}

// RecordMovement applies a signed delta to one payment method. Expected and
// current balances move together; a discrepancy can only arise from the
// physical count supplied at close.
func (s *registerService) RecordMovement(ctx context.Context, sessionID string, method domain.PaymentMethod, delta decimal.Decimal, requesterID string) (*domain.RegisterSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, method)
	}
	if delta.IsZero() {
		return nil, fmt.Errorf("%w: movement delta must not be zero", apperrors.ErrValidation)
	}

	session, err := s.registerRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, fmt.Errorf("%w: cannot record movements on session %s", apperrors.ErrSessionClosed, sessionID)
	}

	session.ExpectedBalances[method] = session.ExpectedBalances[method].Add(delta)
	session.CurrentBalances[method] = session.CurrentBalances[method].Add(delta)

	if err := s.registerRepo.UpdateSession(ctx, *session); err != nil {
		logger.Error("Failed to record movement", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		return nil, err
	}
	session.Version++

	logger.Debug("Movement recorded", slog.String("session_id", sessionID), slog.String("method", string(method)), slog.String("delta", delta.String()))
	return session, nil
}

// CloseSession snapshots the physical count and computes the discrepancy per
// payment method. All zero means settled; anything else parks the session
// pending a resolution decision. A session closes exactly once: the count
// must not be discarded or re-applied, so a second close is a conflict
// unless it repeats the close key of the first.
func (s *registerService) CloseSession(ctx context.Context, sessionID string, req dto.CloseSessionRequest, closerID string) (*domain.RegisterSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateBalances(req.CountedBalances); err != nil {
		return nil, err
	}

	session, err := s.registerRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.IsOpen() {
		// Retried close after an unknown-outcome failure: same key, same
		// result, no double-apply.
		if req.CloseKey != nil && session.CloseKey != nil && *req.CloseKey == *session.CloseKey {
			logger.Debug("Close retried with matching key, returning stored snapshot", slog.String("session_id", sessionID))
			return session, nil
		}
		return nil, fmt.Errorf("%w: session %s", apperrors.ErrSessionClosed, sessionID)
	}

	now := time.Now().UTC()
	counted := domain.BalanceMap(req.CountedBalances).Clone()

	session.CurrentBalances = counted
	session.Discrepancies = domain.ComputeDiscrepancies(session.ExpectedBalances, counted)
	session.ClosedBy = &closerID
	session.ClosedAt = &now
	session.CloseKey = req.CloseKey

	session.Status = domain.SessionSettled
	for _, diff := range session.Discrepancies {
		if !diff.IsZero() {
			session.Status = domain.SessionDiscrepancyPending
			break
		}
	}

	// The version-guarded update serializes concurrent closes: the loser
	// sees ErrConflict instead of overwriting the first snapshot.
	if err := s.registerRepo.UpdateSession(ctx, *session); err != nil {
		logger.Error("Failed to close register session", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		return nil, err
	}
	session.Version++

	logger.Info("Register session closed",
		slog.String("session_id", sessionID),
		slog.String("status", string(session.Status)),
		slog.String("closed_by", closerID),
	)
	return session, nil
}

// ResolveDiscrepancy records the resolution decision on a
// discrepancy-pending session and moves it to the matching terminal state.
// Re-resolving is rejected.
func (s *registerService) ResolveDiscrepancy(ctx context.Context, sessionID string, req dto.ResolveDiscrepancyRequest, approverID string) (*domain.RegisterSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidResolutionKind(req.Kind) {
		return nil, fmt.Errorf("%w: unknown resolution kind %q", apperrors.ErrValidation, req.Kind)
	}

	session, err := s.registerRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case domain.SessionDiscrepancyPending:
		// resolvable
	case domain.SessionOpen:
		return nil, fmt.Errorf("%w: session %s is not closed yet", apperrors.ErrConflict, sessionID)
	default:
		return nil, fmt.Errorf("%w: session %s is in state %s", apperrors.ErrAlreadyResolved, sessionID, session.Status)
	}

	now := time.Now().UTC()
	session.Resolution = &domain.DiscrepancyResolution{
		Kind:       req.Kind,
		ResolvedBy: approverID,
		ResolvedAt: now,
		Notes:      req.Notes,
	}
	session.Status = domain.SessionStatusForResolution(req.Kind)

	if err := s.registerRepo.UpdateSession(ctx, *session); err != nil {
		logger.Error("Failed to resolve discrepancy", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		return nil, err
	}
	session.Version++

	logger.Info("Register discrepancy resolved",
		slog.String("session_id", sessionID),
		slog.String("kind", string(req.Kind)),
		slog.String("resolved_by", approverID),
	)
	return session, nil
}

// GetSessionByID retrieves a session by its unique identifier.
func (s *registerService) GetSessionByID(ctx context.Context, sessionID string) (*domain.RegisterSession, error) {
	return s.registerRepo.FindSessionByID(ctx, sessionID)
}

// ListOpenSessions retrieves every session that is still open.
func (s *registerService) ListOpenSessions(ctx context.Context) ([]domain.RegisterSession, error) {
	return s.registerRepo.ListOpenSessions(ctx)
}
