package services

import (
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/pocketfolio/personal_finance_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Rate service first: reporting prices amounts through it.
	container.Rate = NewRateService(repos.RateRepo, repos.SettingsRepo)

	container.Account = NewAccountService(repos.AccountRepo, repos.TransactionRepo, repos.SettingsRepo)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo)
	container.Recurrence = NewRecurrenceService(repos.TransactionRepo, container.Transaction)
	container.Reporting = NewReportingService(repos.TransactionRepo, repos.AccountRepo, repos.SettingsRepo, container.Rate)
	container.Settings = NewSettingsService(repos.SettingsRepo)

	return container
}
