package repositories

import (
	"context"
	"time"

	"github.com/retailpos/backoffice_ledger/internal/core/domain"
)

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction without its entries.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindEntriesByTransactionID retrieves all journal entries for a
	// transaction in deterministic order.
	FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)

	// ListTransactionsByPeriod retrieves a paginated list of transactions for
	// a period using token-based pagination. It returns the transactions, a
	// token for the next page, and an error.
	ListTransactionsByPeriod(ctx context.Context, periodID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for transaction data. Writes
// that touch a transaction and its entries are atomic: either every row is
// durably written (or removed) or none is.
type TransactionWriter interface {
	// SaveTransaction persists a transaction and all of its journal entries
	// as a single unit.
	SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.JournalEntry) error

	// UpdateTransactionStatus updates the review status and audit fields.
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, updatedBy string, updatedAt time.Time) error

	// DeleteTransaction removes the transaction and its entries as a single
	// unit.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
