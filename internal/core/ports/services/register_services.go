package services

import (
	"context"

	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	"github.com/retailpos/backoffice_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// RegisterReaderSvc defines read operations for register sessions.
type RegisterReaderSvc interface {
	GetSessionByID(ctx context.Context, sessionID string) (*domain.RegisterSession, error)
	ListOpenSessions(ctx context.Context) ([]domain.RegisterSession, error)
}

// RegisterReconcilerSvc defines the register session lifecycle: open,
// movements, close with discrepancy computation, and the resolution
// workflow.
type RegisterReconcilerSvc interface {
	// OpenSession starts a shift with current = expected = opening for every
	// payment method present.
	OpenSession(ctx context.Context, req dto.OpenSessionRequest, openerID string) (*domain.RegisterSession, error)

	// RecordMovement applies a signed delta to the expected and current
	// balances of one payment method. The session must still be open.
	RecordMovement(ctx context.Context, sessionID string, method domain.PaymentMethod, delta decimal.Decimal, requesterID string) (*domain.RegisterSession, error)

	// CloseSession snapshots the physical count, computes the discrepancy per
	// method and settles the session or parks it pending resolution. A
	// session closes exactly once; closing a non-open session is an error
	// unless the request repeats the close key of the successful close.
	CloseSession(ctx context.Context, sessionID string, req dto.CloseSessionRequest, closerID string) (*domain.RegisterSession, error)

	// ResolveDiscrepancy records the resolution decision while the session is
	// discrepancy-pending and moves it to the matching terminal state.
	ResolveDiscrepancy(ctx context.Context, sessionID string, req dto.ResolveDiscrepancyRequest, approverID string) (*domain.RegisterSession, error)
}

// RegisterSvcFacade combines all register service interfaces.
type RegisterSvcFacade interface {
	RegisterReaderSvc
	RegisterReconcilerSvc
}
