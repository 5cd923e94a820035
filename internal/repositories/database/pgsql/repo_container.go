package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/retailpos/backoffice_ledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx repositories over a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	periodRepo := newPgxPeriodRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	registerRepo := newPgxRegisterRepository(dbPool)

	return portsrepo.RepositoryProvider{
		PeriodRepo:      periodRepo,
		TransactionRepo: transactionRepo,
		RegisterRepo:    registerRepo,
	}
}
