package repositories

// RepositoryProvider aggregates all repository facades for dependency
// injection into the service layer.
type RepositoryProvider struct {
	PeriodRepo      PeriodRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	RegisterRepo    RegisterRepositoryFacade
}
