package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/pocketfolio/personal_finance_app/internal/core/ports/services"
	"github.com/pocketfolio/personal_finance_app/internal/core/services"
	"github.com/pocketfolio/personal_finance_app/internal/dto"
	"github.com/pocketfolio/personal_finance_app/internal/repositories/memory"
)

// --- Test Suite Setup ---

// TransactionServiceTestSuite runs the transaction service against the
// in-memory repositories so every balance effect is observable end to end.
type TransactionServiceTestSuite struct {
	suite.Suite
	repos       portsrepo.RepositoryProvider
	service     portssvc.TransactionSvcFacade
	usdAccount  domain.Account
	usd2Account domain.Account
	eurAccount  domain.Account
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.repos = memory.NewRepositoryProvider()
	suite.service = services.NewTransactionService(suite.repos.TransactionRepo, suite.repos.AccountRepo)

	ctx := context.Background()
	now := time.Now().UTC()

	suite.usdAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Checking",
		CurrencyCode: "USD",
		Balance:      decimal.NewFromInt(1000),
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	suite.usd2Account = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Savings",
		CurrencyCode: "USD",
		Balance:      decimal.NewFromInt(500),
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	suite.eurAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Euro Savings",
		CurrencyCode: "EUR",
		Balance:      decimal.NewFromInt(200),
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	suite.Require().NoError(suite.repos.AccountRepo.SaveAccount(ctx, suite.usdAccount))
	suite.Require().NoError(suite.repos.AccountRepo.SaveAccount(ctx, suite.usd2Account))
	suite.Require().NoError(suite.repos.AccountRepo.SaveAccount(ctx, suite.eurAccount))
}

func (suite *TransactionServiceTestSuite) balanceOf(accountID string) decimal.Decimal {
	account, err := suite.repos.AccountRepo.FindAccountByID(context.Background(), accountID)
	suite.Require().NoError(err)
	return account.Balance
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

// --- Test Cases ---

func (suite *TransactionServiceTestSuite) TestCreateIncome_CreditsAccount() {
	ctx := context.Background()

	txn, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		OccurredAt:   time.Now().UTC(),
		Kind:         domain.KindIncome,
		AccountID:    suite.usdAccount.AccountID,
		Amount:       decimal.NewFromInt(250),
		CurrencyCode: "USD",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal("1250", suite.balanceOf(suite.usdAccount.AccountID).String())
}

func (suite *TransactionServiceTestSuite) TestCreateLocalOutflow_DebitsAccount() {
	ctx := context.Background()

	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		OccurredAt:   time.Now().UTC(),
		Kind:         domain.KindLocalOutflow,
		AccountID:    suite.usdAccount.AccountID,
		Amount:       decimal.NewFromInt(300),
		CurrencyCode: "USD",
		Category:     "Groceries",
	})

	suite.Require().NoError(err)
	suite.Equal("700", suite.balanceOf(suite.usdAccount.AccountID).String())
}

func (suite *TransactionServiceTestSuite) TestSameCurrencyTransfer_ConservesTotal() {
	ctx := context.Background()

	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		OccurredAt:           time.Now().UTC(),
		Kind:                 domain.KindTransfer,
		AccountID:            suite.usdAccount.AccountID,
		Amount:               decimal.NewFromInt(400),
		CurrencyCode:         "USD",
		DestinationAccountID: suite.usd2Account.AccountID,
	})

	suite.Require().NoError(err)
	suite.Equal("600", suite.balanceOf(suite.usdAccount.AccountID).String())
	suite.Equal("900", suite.balanceOf(suite.usd2Account.AccountID).String())

	total := suite.balanceOf(suite.usdAccount.AccountID).Add(suite.balanceOf(suite.usd2Account.AccountID))
	suite.Equal("1500", total.String())
}

func (suite *TransactionServiceTestSuite) TestCrossCurrencyTransfer_CreditsRecordedAmount() {
	ctx := context.Background()

	// 100 USD leaves, the recorded settlement of 92 EUR arrives. The credited
	// amount comes from the stored settlement, never a fresh rate lookup.
	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		OccurredAt:           time.Now().UTC(),
		Kind:                 domain.KindTransfer,
		AccountID:            suite.usdAccount.AccountID,
		Amount:               decimal.NewFromInt(100),
		CurrencyCode:         "USD",
		DestinationAccountID: suite.eurAccount.AccountID,
		BaseCurrencyAmount:   ptr(decimal.NewFromInt(92)),
		ExchangeRate:         ptr(decimal.NewFromFloat(0.92)),
	})

	suite.Require().NoError(err)
	suite.Equal("900", suite.balanceOf(suite.usdAccount.AccountID).String())
	suite.Equal("292", suite.balanceOf(suite.eurAccount.AccountID).String())
}

func (suite *TransactionServiceTestSuite) TestUpdate_EqualsDeleteThenAdd() {
	ctx := context.Background()

	created, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		OccurredAt:   time.Now().UTC(),
		Kind:         domain.KindLocalOutflow,
		AccountID:    suite.usdAccount.AccountID,
		Amount:       decimal.NewFromInt(100),
		CurrencyCode: "USD",
		Category:     "Bills",
	})
	suite.Require().NoError(err)
	suite.Equal("900", suite.balanceOf(suite.usdAccount.AccountID).String())

	// Replace the outflow with an income on another account: the original
	// debit is reverted and the new credit applied in one batch.
	replacement := *created
	replacement.Kind = domain.KindIncome
	replacement.AccountID = suite.usd2Account.AccountID
	replacement.Amount = decimal.NewFromInt(50)
	replacement.Category = ""

	updated, err := suite.service.UpdateTransaction(ctx, replacement)
	suite.Require().NoError(err)
	suite.Require().NotNil(updated)

	suite.Equal("1000", suite.balanceOf(suite.usdAccount.AccountID).String())
	suite.Equal("550", suite.balanceOf(suite.usd2Account.AccountID).String())
}

func (suite *TransactionServiceTestSuite) TestUpdateSameAccount_NetsOneAdjustment() {
	ctx := context.Background()

	created, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		OccurredAt:   time.Now().UTC(),
		Kind:         domain.KindLocalOutflow,
		AccountID:    suite.usdAccount.AccountID,
		Amount:       decimal.NewFromInt(100),
		CurrencyCode: "USD",
		Category:     "Bills",
	})
	suite.Require().NoError(err)

	replacement := *created
	replacement.Amount = decimal.NewFromInt(130)

	_, err = suite.service.UpdateTransaction(ctx, replacement)
	suite.Require().NoError(err)
	suite.Equal("870", suite.balanceOf(suite.usdAccount.AccountID).String())
}

func (suite *TransactionServiceTestSuite) TestDelete_RestoresBalances() {
	ctx := context.Background()

	created, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		OccurredAt:           time.Now().UTC(),
		Kind:                 domain.KindTransfer,
		AccountID:            suite.usdAccount.AccountID,
		Amount:               decimal.NewFromInt(100),
		CurrencyCode:         "USD",
		DestinationAccountID: suite.eurAccount.AccountID,
		BaseCurrencyAmount:   ptr(decimal.NewFromInt(92)),
		ExchangeRate:         ptr(decimal.NewFromFloat(0.92)),
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteTransaction(ctx, created.TransactionID))

	suite.Equal("1000", suite.balanceOf(suite.usdAccount.AccountID).String())
	suite.Equal("200", suite.balanceOf(suite.eurAccount.AccountID).String())

	_, err = suite.service.GetTransactionByID(ctx, created.TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestUpdateUnknownID_IsNoOp() {
	ctx := context.Background()

	updated, err := suite.service.UpdateTransaction(ctx, domain.Transaction{
		TransactionID: uuid.NewString(),
		OccurredAt:    time.Now().UTC(),
		Kind:          domain.KindIncome,
		AccountID:     suite.usdAccount.AccountID,
		Amount:        decimal.NewFromInt(10),
		CurrencyCode:  "USD",
	})

	suite.NoError(err)
	suite.Nil(updated)
	suite.Equal("1000", suite.balanceOf(suite.usdAccount.AccountID).String())
}

func (suite *TransactionServiceTestSuite) TestDeleteUnknownID_IsNoOp() {
	suite.NoError(suite.service.DeleteTransaction(context.Background(), uuid.NewString()))
	suite.Equal("1000", suite.balanceOf(suite.usdAccount.AccountID).String())
}

func (suite *TransactionServiceTestSuite) TestListTransactions_NewestFirstAfterUpdate() {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		OccurredAt:   base,
		Kind:         domain.KindIncome,
		AccountID:    suite.usdAccount.AccountID,
		Amount:       decimal.NewFromInt(10),
		CurrencyCode: "USD",
	})
	suite.Require().NoError(err)

	second, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		OccurredAt:   base.AddDate(0, 0, 2),
		Kind:         domain.KindIncome,
		AccountID:    suite.usdAccount.AccountID,
		Amount:       decimal.NewFromInt(20),
		CurrencyCode: "USD",
	})
	suite.Require().NoError(err)

	// Move the older transaction past the newer one; the list must resort.
	moved := *first
	moved.OccurredAt = base.AddDate(0, 0, 5)
	_, err = suite.service.UpdateTransaction(ctx, moved)
	suite.Require().NoError(err)

	txns, err := suite.service.ListTransactions(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(txns, 2)
	suite.Equal(first.TransactionID, txns[0].TransactionID)
	suite.Equal(second.TransactionID, txns[1].TransactionID)
}

func (suite *TransactionServiceTestSuite) TestValidation_RejectsBadShapes() {
	ctx := context.Background()
	cases := []struct {
		name string
		req  dto.CreateTransactionRequest
	}{
		{"non-positive amount", dto.CreateTransactionRequest{
			OccurredAt: time.Now().UTC(), Kind: domain.KindIncome,
			AccountID: suite.usdAccount.AccountID, Amount: decimal.Zero, CurrencyCode: "USD",
		}},
		{"category on income", dto.CreateTransactionRequest{
			OccurredAt: time.Now().UTC(), Kind: domain.KindIncome,
			AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(10),
			CurrencyCode: "USD", Category: "Food",
		}},
		{"settlement on local outflow", dto.CreateTransactionRequest{
			OccurredAt: time.Now().UTC(), Kind: domain.KindLocalOutflow,
			AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(10),
			CurrencyCode: "USD", BaseCurrencyAmount: ptr(decimal.NewFromInt(9)),
		}},
		{"destination on outflow", dto.CreateTransactionRequest{
			OccurredAt: time.Now().UTC(), Kind: domain.KindLocalOutflow,
			AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(10),
			CurrencyCode: "USD", DestinationAccountID: suite.usd2Account.AccountID,
		}},
		{"international outflow without settlement", dto.CreateTransactionRequest{
			OccurredAt: time.Now().UTC(), Kind: domain.KindInternationalOutflow,
			AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(10),
			CurrencyCode: "USD",
		}},
		{"cross-currency transfer without settlement", dto.CreateTransactionRequest{
			OccurredAt: time.Now().UTC(), Kind: domain.KindTransfer,
			AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(10),
			CurrencyCode: "USD", DestinationAccountID: suite.eurAccount.AccountID,
		}},
		{"settlement on same-currency transfer", dto.CreateTransactionRequest{
			OccurredAt: time.Now().UTC(), Kind: domain.KindTransfer,
			AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(10),
			CurrencyCode: "USD", DestinationAccountID: suite.usd2Account.AccountID,
			BaseCurrencyAmount: ptr(decimal.NewFromInt(10)), ExchangeRate: ptr(decimal.NewFromInt(1)),
		}},
		{"self transfer", dto.CreateTransactionRequest{
			OccurredAt: time.Now().UTC(), Kind: domain.KindTransfer,
			AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(10),
			CurrencyCode: "USD", DestinationAccountID: suite.usdAccount.AccountID,
		}},
		{"currency mismatch", dto.CreateTransactionRequest{
			OccurredAt: time.Now().UTC(), Kind: domain.KindIncome,
			AccountID: suite.eurAccount.AccountID, Amount: decimal.NewFromInt(10),
			CurrencyCode: "USD",
		}},
		{"unknown account", dto.CreateTransactionRequest{
			OccurredAt: time.Now().UTC(), Kind: domain.KindIncome,
			AccountID: uuid.NewString(), Amount: decimal.NewFromInt(10),
			CurrencyCode: "USD",
		}},
		{"recurring without frequency", dto.CreateTransactionRequest{
			OccurredAt: time.Now().UTC(), Kind: domain.KindIncome,
			AccountID: suite.usdAccount.AccountID, Amount: decimal.NewFromInt(10),
			CurrencyCode: "USD", IsRecurring: true,
		}},
	}

	for _, tc := range cases {
		_, err := suite.service.CreateTransaction(ctx, tc.req)
		suite.ErrorIs(err, apperrors.ErrValidation, tc.name)
	}

	// No rejected request may have moved a balance.
	suite.Equal("1000", suite.balanceOf(suite.usdAccount.AccountID).String())
	suite.Equal("500", suite.balanceOf(suite.usd2Account.AccountID).String())
	suite.Equal("200", suite.balanceOf(suite.eurAccount.AccountID).String())
}

func (suite *TransactionServiceTestSuite) TestCreateRecurring_ArmsNextDate() {
	ctx := context.Background()
	occurred := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

	txn, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		OccurredAt:          occurred,
		Kind:                domain.KindLocalOutflow,
		AccountID:           suite.usdAccount.AccountID,
		Amount:              decimal.NewFromInt(15),
		CurrencyCode:        "USD",
		Category:            "Subscriptions",
		IsRecurring:         true,
		RecurrenceFrequency: domain.Monthly,
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(txn.NextRecurrenceDate)
	suite.Equal(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), *txn.NextRecurrenceDate)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
