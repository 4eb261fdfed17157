package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/pocketfolio/personal_finance_app/internal/core/ports/services"
	"github.com/pocketfolio/personal_finance_app/internal/core/services"
	"github.com/pocketfolio/personal_finance_app/internal/dto"
	"github.com/pocketfolio/personal_finance_app/internal/repositories/memory"
)

// --- Test Suite Setup ---

// ReportingServiceTestSuite runs the reporting service against the in-memory
// repositories with a real rate service, seeding a small two-currency ledger.
type ReportingServiceTestSuite struct {
	suite.Suite
	repos      portsrepo.RepositoryProvider
	txnSvc     portssvc.TransactionSvcFacade
	rateSvc    portssvc.RateSvcFacade
	service    portssvc.ReportingSvcFacade
	usdAccount domain.Account
	eurAccount domain.Account
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.repos = memory.NewRepositoryProvider()
	suite.txnSvc = services.NewTransactionService(suite.repos.TransactionRepo, suite.repos.AccountRepo)
	suite.rateSvc = services.NewRateService(suite.repos.RateRepo, suite.repos.SettingsRepo)
	suite.service = services.NewReportingService(suite.repos.TransactionRepo, suite.repos.AccountRepo, suite.repos.SettingsRepo, suite.rateSvc)

	ctx := context.Background()
	now := time.Now().UTC()

	settings := domain.DefaultSettings()
	settings.BaseCurrency = "USD"
	suite.Require().NoError(suite.repos.SettingsRepo.SaveSettings(ctx, settings))

	suite.usdAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Checking",
		CurrencyCode: "USD",
		Balance:      decimal.NewFromInt(1000),
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	suite.eurAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Euro Savings",
		CurrencyCode: "EUR",
		Balance:      decimal.NewFromInt(100),
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	suite.Require().NoError(suite.repos.AccountRepo.SaveAccount(ctx, suite.usdAccount))
	suite.Require().NoError(suite.repos.AccountRepo.SaveAccount(ctx, suite.eurAccount))

	// 1 EUR = 1.1 USD.
	suite.Require().NoError(suite.rateSvc.UpdateRates(ctx, []domain.Rate{
		{FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: decimal.NewFromFloat(1.1)},
	}))
}

func (suite *ReportingServiceTestSuite) addTransaction(req dto.CreateTransactionRequest) {
	_, err := suite.txnSvc.CreateTransaction(context.Background(), req)
	suite.Require().NoError(err)
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestMonthlySummary_TotalsAndCategories() {
	march := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	suite.addTransaction(dto.CreateTransactionRequest{
		OccurredAt: march, Kind: domain.KindIncome,
		AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(3000), CurrencyCode: "USD",
	})
	suite.addTransaction(dto.CreateTransactionRequest{
		OccurredAt: march.AddDate(0, 0, 1), Kind: domain.KindLocalOutflow,
		AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(400), CurrencyCode: "USD",
		Category: "Rent",
	})
	suite.addTransaction(dto.CreateTransactionRequest{
		OccurredAt: march.AddDate(0, 0, 2), Kind: domain.KindLocalOutflow,
		AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(150), CurrencyCode: "USD",
		Category: "Groceries",
	})
	// A EUR outflow without a recorded settlement converts at the live rate.
	suite.addTransaction(dto.CreateTransactionRequest{
		OccurredAt: march.AddDate(0, 0, 3), Kind: domain.KindLocalOutflow,
		AccountID: suite.eurAccount.AccountID, Amount: decimal.NewFromInt(100), CurrencyCode: "EUR",
		Category: "Groceries",
	})
	// Outside the month: ignored.
	suite.addTransaction(dto.CreateTransactionRequest{
		OccurredAt: march.AddDate(0, 1, 0), Kind: domain.KindIncome,
		AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(999), CurrencyCode: "USD",
	})

	summary, err := suite.service.MonthlySummary(context.Background(), march)
	suite.Require().NoError(err)

	suite.Equal("2024-03", summary.Month)
	suite.Equal("USD", summary.BaseCurrency)
	suite.Equal("3000", summary.TotalIncome.String())
	suite.Equal("660", summary.TotalOutflow.String())

	suite.Require().Len(summary.SpendingByCategory, 2)
	suite.Equal("Rent", summary.SpendingByCategory[0].Category)
	suite.Equal("400", summary.SpendingByCategory[0].Amount.String())
	suite.Equal("Groceries", summary.SpendingByCategory[1].Category)
	suite.Equal("260", summary.SpendingByCategory[1].Amount.String())
}

func (suite *ReportingServiceTestSuite) TestMonthlySummary_TransfersExcluded() {
	march := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	suite.addTransaction(dto.CreateTransactionRequest{
		OccurredAt: march, Kind: domain.KindTransfer,
		AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(500), CurrencyCode: "USD",
		DestinationAccountID: suite.eurAccount.AccountID,
		BaseCurrencyAmount:   ptr(decimal.NewFromInt(450)),
		ExchangeRate:         ptr(decimal.NewFromFloat(0.9)),
	})

	summary, err := suite.service.MonthlySummary(context.Background(), march)
	suite.Require().NoError(err)

	suite.True(summary.TotalIncome.IsZero())
	suite.True(summary.TotalOutflow.IsZero())
	suite.Empty(summary.SpendingByCategory)
}

func (suite *ReportingServiceTestSuite) TestMonthlySummary_RecordedSettlementWins() {
	march := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	// The live rate would price this at 110 USD, but the recorded settlement
	// of 105 USD is what was actually paid.
	suite.addTransaction(dto.CreateTransactionRequest{
		OccurredAt: march, Kind: domain.KindInternationalOutflow,
		AccountID: suite.eurAccount.AccountID, Amount: decimal.NewFromInt(100), CurrencyCode: "EUR",
		BaseCurrencyAmount: ptr(decimal.NewFromInt(105)),
		ExchangeRate:       ptr(decimal.NewFromFloat(1.05)),
	})

	summary, err := suite.service.MonthlySummary(context.Background(), march)
	suite.Require().NoError(err)

	suite.Equal("105", summary.TotalOutflow.String())
	suite.Require().Len(summary.SpendingByCategory, 1)
	suite.Equal("Uncategorized", summary.SpendingByCategory[0].Category)
}

func (suite *ReportingServiceTestSuite) TestMonthlySummary_NetWorthConvertsBalances() {
	summary, err := suite.service.MonthlySummary(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)

	// 1000 USD + 100 EUR * 1.1.
	suite.Equal("1110", summary.NetWorth.String())
	suite.Equal("$1,110.00", summary.FormattedNetWorth)
}

func (suite *ReportingServiceTestSuite) TestMonthlySummary_UnpricedCurrencyDegradesToZero() {
	ctx := context.Background()
	now := time.Now().UTC()

	exotic := domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Offshore",
		CurrencyCode: "KZT",
		Balance:      decimal.NewFromInt(50000),
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	suite.Require().NoError(suite.repos.AccountRepo.SaveAccount(ctx, exotic))

	summary, err := suite.service.MonthlySummary(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)

	// The unpriced KZT balance contributes nothing instead of failing.
	suite.Equal("1110", summary.NetWorth.String())
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
