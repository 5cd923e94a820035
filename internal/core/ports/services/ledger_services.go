package services

import (
	"context"

	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	"github.com/retailpos/backoffice_ledger/internal/dto"
)

// LedgerReaderSvc defines read operations for recorded transactions.
type LedgerReaderSvc interface {
	// GetTransactionByID retrieves a transaction with its entries populated.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListByPeriod retrieves a paginated list of transactions for a period.
	// Read-only, so no period-state restriction applies.
	ListByPeriod(ctx context.Context, periodID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerWriterSvc defines mutating operations for recorded transactions.
// Every mutation is gated on the owning period being open.
type LedgerWriterSvc interface {
	// RecordTransaction validates that the target period is writable and the
	// entries balance, then persists the transaction and its entries as one
	// atomic unit.
	RecordTransaction(ctx context.Context, req dto.RecordTransactionRequest, creatorID string) (*domain.Transaction, error)

	// ChangeStatus moves a transaction to a new review status subject to the
	// status policy and the period gate.
	ChangeStatus(ctx context.Context, transactionID string, newStatus domain.TransactionStatus, requesterID string) (*domain.Transaction, error)

	// DeleteTransaction removes the transaction and its entries atomically,
	// subject to the period gate.
	DeleteTransaction(ctx context.Context, transactionID string, requesterID string) error
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
