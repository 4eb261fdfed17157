package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/pocketfolio/personal_finance_app/internal/core/ports/services"
	"github.com/pocketfolio/personal_finance_app/internal/dto"
)

// accountService owns account records. Balances are only moved through the
// transaction service's batch delta application; this service handles the
// lifecycle (create, rename, delete) around them.
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepository
	txnRepo      portsrepo.TransactionRepository
	settingsRepo portsrepo.SettingsRepository
}

// NewAccountService creates a new AccountSvcFacade.
func NewAccountService(accountRepo portsrepo.AccountRepository, txnRepo portsrepo.TransactionRepository, settingsRepo portsrepo.SettingsRepository) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  accountRepo,
		txnRepo:      txnRepo,
		settingsRepo: settingsRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	currency := strings.ToUpper(req.CurrencyCode)
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		Name:         req.Name,
		CurrencyCode: currency,
		Balance:      req.OpeningBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("currency", currency))
	s.adoptBaseCurrency(ctx, currency)
	return &account, nil
}

// adoptBaseCurrency sets the ledger's base currency to the first account's
// currency when none has been chosen yet. Failures here never fail account
// creation; the base currency can still be set through the settings API.
func (s *accountService) adoptBaseCurrency(ctx context.Context, currency string) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		defaults := domain.DefaultSettings()
		settings = &defaults
	} else if err != nil {
		s.LogError(ctx, err, "Failed to load settings for base currency adoption")
		return
	}
	if settings.BaseCurrency != "" {
		return
	}
	settings.BaseCurrency = currency
	settings.LastUpdatedAt = time.Now().UTC()
	if err := s.settingsRepo.SaveSettings(ctx, *settings); err != nil {
		s.LogError(ctx, err, "Failed to adopt base currency", slog.String("currency", currency))
		return
	}
	s.LogInfo(ctx, "Base currency adopted from first account", slog.String("currency", currency))
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccount applies balance-preserving edits. Currency and balance are
// write-once; only the display name can change here.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
		}
		account.Name = *req.Name
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update", slog.String("account_id", accountID))
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeleteAccount removes an account unless any transaction still references it
// as source or destination.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return err
	}

	referenced, err := s.txnRepo.HasTransactionsForAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check dependent transactions", slog.String("account_id", accountID))
		return fmt.Errorf("failed to check dependent transactions: %w", err)
	}
	if referenced {
		return fmt.Errorf("%w: account %s", apperrors.ErrHasDependentTransactions, accountID)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
