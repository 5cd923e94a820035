package services

import (
	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/retailpos/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/retailpos/backoffice_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. The period service comes first since the ledger
// consults it before every write.
func NewServiceContainer(repos portsrepo.RepositoryProvider, policy domain.StatusPolicy) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Period = NewPeriodService(repos.PeriodRepo)
	container.Ledger = NewLedgerService(repos.TransactionRepo, container.Period, policy)
	container.Register = NewRegisterService(repos.RegisterRepo)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.PeriodSvcFacade   = (*periodService)(nil)
	_ portssvc.LedgerSvcFacade   = (*ledgerService)(nil)
	_ portssvc.RegisterSvcFacade = (*registerService)(nil)
)
