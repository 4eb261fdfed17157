package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/pocketfolio/personal_finance_app/internal/core/ports/services"
	"github.com/pocketfolio/personal_finance_app/internal/dto"
	"github.com/pocketfolio/personal_finance_app/internal/utils/moneyfmt"
)

// reportingService aggregates ledger figures in the base currency. Transfers
// are internal movements and never count toward income or outflow. Recorded
// settlement amounts are authoritative for historical figures; only amounts
// without a recorded settlement go through live conversion, where unpriced
// currencies degrade to zero.
type reportingService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepository
	accountRepo  portsrepo.AccountRepository
	settingsRepo portsrepo.SettingsRepository
	rateSvc      portssvc.RateSvcFacade
}

// NewReportingService creates a new ReportingSvcFacade.
func NewReportingService(
	txnRepo portsrepo.TransactionRepository,
	accountRepo portsrepo.AccountRepository,
	settingsRepo portsrepo.SettingsRepository,
	rateSvc portssvc.RateSvcFacade,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		txnRepo:      txnRepo,
		accountRepo:  accountRepo,
		settingsRepo: settingsRepo,
		rateSvc:      rateSvc,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) MonthlySummary(ctx context.Context, ref time.Time) (*dto.MonthlySummaryResponse, error) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		defaults := domain.DefaultSettings()
		settings = &defaults
	} else if err != nil {
		s.LogError(ctx, err, "Failed to load settings for monthly summary")
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	base := settings.BaseCurrency

	txns, err := s.txnRepo.ListTransactions(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions for monthly summary")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	monthStart := time.Date(ref.UTC().Year(), ref.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	totalIncome := decimal.Zero
	totalOutflow := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)

	for _, txn := range txns {
		at := txn.OccurredAt.UTC()
		if at.Before(monthStart) || !at.Before(monthEnd) {
			continue
		}
		if txn.Kind == domain.KindTransfer {
			continue
		}

		amount, err := s.toBase(ctx, txn, base)
		if err != nil {
			return nil, err
		}
		switch {
		case txn.Kind == domain.KindIncome:
			totalIncome = totalIncome.Add(amount)
		case txn.IsOutflow():
			totalOutflow = totalOutflow.Add(amount)
			category := txn.Category
			if category == "" {
				category = "Uncategorized"
			}
			byCategory[category] = byCategory[category].Add(amount)
		}
	}

	netWorth, err := s.netWorth(ctx)
	if err != nil {
		return nil, err
	}

	spending := make([]dto.CategorySpend, 0, len(byCategory))
	for category, amount := range byCategory {
		spending = append(spending, dto.CategorySpend{
			Category:  category,
			Amount:    amount,
			Formatted: moneyfmt.Format(amount, base),
		})
	}
	sort.Slice(spending, func(i, j int) bool {
		if !spending[i].Amount.Equal(spending[j].Amount) {
			return spending[i].Amount.GreaterThan(spending[j].Amount)
		}
		return spending[i].Category < spending[j].Category
	})

	s.LogDebug(ctx, "Monthly summary computed",
		slog.String("month", monthStart.Format("2006-01")),
		slog.Int("categories", len(spending)))

	return &dto.MonthlySummaryResponse{
		Month:              monthStart.Format("2006-01"),
		BaseCurrency:       base,
		TotalIncome:        totalIncome,
		TotalOutflow:       totalOutflow,
		NetWorth:           netWorth,
		FormattedIncome:    moneyfmt.Format(totalIncome, base),
		FormattedOutflow:   moneyfmt.Format(totalOutflow, base),
		FormattedNetWorth:  moneyfmt.Format(netWorth, base),
		SpendingByCategory: spending,
	}, nil
}

// toBase prices a transaction in the base currency. A recorded settlement
// amount wins over live conversion; it captures what was actually paid.
func (s *reportingService) toBase(ctx context.Context, txn domain.Transaction, base string) (decimal.Decimal, error) {
	if txn.BaseCurrencyAmount != nil {
		return *txn.BaseCurrencyAmount, nil
	}
	if txn.CurrencyCode == base {
		return txn.Amount, nil
	}
	return s.rateSvc.ConvertOrZero(ctx, txn.Amount, txn.CurrencyCode)
}

// netWorth sums all account balances converted at current rates.
func (s *reportingService) netWorth(ctx context.Context) (decimal.Decimal, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for net worth")
		return decimal.Zero, fmt.Errorf("failed to list accounts: %w", err)
	}

	total := decimal.Zero
	for _, account := range accounts {
		converted, err := s.rateSvc.ConvertOrZero(ctx, account.Balance, account.CurrencyCode)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(converted)
	}
	return total, nil
}
