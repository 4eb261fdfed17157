// Package memory provides an in-process implementation of the repository
// ports. All entities live behind a single mutex so a transaction mutation
// and its balance deltas are applied as one atomic batch, matching the
// guarantees of the SQL adapter. It backs tests and the standalone
// (database-free) deployment mode.
package memory

import (
	"sync"

	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
)

// store is the shared state behind every repository in this package.
type store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	rates        map[string]domain.Rate // keyed by ordered pair "FROM/TO"
	settings     *domain.Settings
}

func newStore() *store {
	return &store{
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string]domain.Transaction),
		rates:        make(map[string]domain.Rate),
	}
}

func rateKey(from, to string) string {
	return from + "/" + to
}

// NewRepositoryProvider creates the full set of repositories over one shared
// in-memory store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	s := newStore()
	return portsrepo.RepositoryProvider{
		AccountRepo:     &accountRepository{store: s},
		TransactionRepo: &transactionRepository{store: s},
		RateRepo:        &rateRepository{store: s},
		SettingsRepo:    &settingsRepository{store: s},
	}
}
