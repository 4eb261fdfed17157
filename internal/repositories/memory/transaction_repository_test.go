package memory_test

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
	"github.com/pocketfolio/personal_finance_app/internal/repositories/memory"
)

type TransactionRepositoryTestSuite struct {
	suite.Suite
	repos   portsrepo.RepositoryProvider
	account domain.Account
	other   domain.Account
}

func (suite *TransactionRepositoryTestSuite) SetupTest() {
	suite.repos = memory.NewRepositoryProvider()

	ctx := context.Background()
	now := time.Now().UTC()
	suite.account = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Checking",
		CurrencyCode: "USD",
		Balance:      decimal.NewFromInt(100),
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	suite.other = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Savings",
		CurrencyCode: "USD",
		Balance:      decimal.NewFromInt(50),
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	suite.Require().NoError(suite.repos.AccountRepo.SaveAccount(ctx, suite.account))
	suite.Require().NoError(suite.repos.AccountRepo.SaveAccount(ctx, suite.other))
}

func (suite *TransactionRepositoryTestSuite) newTransaction(occurredAt time.Time) domain.Transaction {
	now := time.Now().UTC()
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		OccurredAt:    occurredAt,
		Kind:          domain.KindIncome,
		AccountID:     suite.account.AccountID,
		Amount:        decimal.NewFromInt(10),
		CurrencyCode:  "USD",
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
}

func (suite *TransactionRepositoryTestSuite) balanceOf(accountID string) decimal.Decimal {
	account, err := suite.repos.AccountRepo.FindAccountByID(context.Background(), accountID)
	suite.Require().NoError(err)
	return account.Balance
}

func (suite *TransactionRepositoryTestSuite) TestSave_AppliesDeltasInOneBatch() {
	ctx := context.Background()
	txn := suite.newTransaction(time.Now().UTC())

	err := suite.repos.TransactionRepo.SaveTransaction(ctx, txn, map[string]decimal.Decimal{
		suite.account.AccountID: decimal.NewFromInt(10),
		suite.other.AccountID:   decimal.NewFromInt(-10),
	})

	suite.Require().NoError(err)
	suite.Equal("110", suite.balanceOf(suite.account.AccountID).String())
	suite.Equal("40", suite.balanceOf(suite.other.AccountID).String())
}

func (suite *TransactionRepositoryTestSuite) TestSave_BadBatchLeavesEverythingUntouched() {
	ctx := context.Background()
	txn := suite.newTransaction(time.Now().UTC())

	err := suite.repos.TransactionRepo.SaveTransaction(ctx, txn, map[string]decimal.Decimal{
		suite.account.AccountID: decimal.NewFromInt(10),
		uuid.NewString():        decimal.NewFromInt(-10),
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal("100", suite.balanceOf(suite.account.AccountID).String())

	_, err = suite.repos.TransactionRepo.FindTransactionByID(ctx, txn.TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionRepositoryTestSuite) TestSave_DuplicateIDRejected() {
	ctx := context.Background()
	txn := suite.newTransaction(time.Now().UTC())

	suite.Require().NoError(suite.repos.TransactionRepo.SaveTransaction(ctx, txn, nil))
	err := suite.repos.TransactionRepo.SaveTransaction(ctx, txn, nil)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *TransactionRepositoryTestSuite) TestList_NewestFirstWithTieBreaks() {
	ctx := context.Background()
	base := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	older := suite.newTransaction(base)
	newer := suite.newTransaction(base.AddDate(0, 0, 1))
	tiedA := suite.newTransaction(base.AddDate(0, 0, 2))
	tiedB := suite.newTransaction(base.AddDate(0, 0, 2))
	tiedA.AuditFields.CreatedAt = base
	tiedB.AuditFields.CreatedAt = base.Add(time.Hour)

	for _, txn := range []domain.Transaction{older, newer, tiedA, tiedB} {
		suite.Require().NoError(suite.repos.TransactionRepo.SaveTransaction(ctx, txn, nil))
	}

	txns, err := suite.repos.TransactionRepo.ListTransactions(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(txns, 4)
	suite.Equal(tiedB.TransactionID, txns[0].TransactionID)
	suite.Equal(tiedA.TransactionID, txns[1].TransactionID)
	suite.Equal(newer.TransactionID, txns[2].TransactionID)
	suite.Equal(older.TransactionID, txns[3].TransactionID)
}

func (suite *TransactionRepositoryTestSuite) TestListRecurring_OnlyArmedTemplates() {
	ctx := context.Background()

	plain := suite.newTransaction(time.Now().UTC())
	suite.Require().NoError(suite.repos.TransactionRepo.SaveTransaction(ctx, plain, nil))

	next := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	armed := suite.newTransaction(time.Now().UTC())
	armed.IsRecurring = true
	armed.RecurrenceFrequency = domain.Monthly
	armed.NextRecurrenceDate = &next
	suite.Require().NoError(suite.repos.TransactionRepo.SaveTransaction(ctx, armed, nil))

	later := next.AddDate(0, 1, 0)
	armedLater := suite.newTransaction(time.Now().UTC())
	armedLater.IsRecurring = true
	armedLater.RecurrenceFrequency = domain.Monthly
	armedLater.NextRecurrenceDate = &later
	suite.Require().NoError(suite.repos.TransactionRepo.SaveTransaction(ctx, armedLater, nil))

	templates, err := suite.repos.TransactionRepo.ListRecurringTransactions(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(templates, 2)
	suite.Equal(armed.TransactionID, templates[0].TransactionID)
	suite.Equal(armedLater.TransactionID, templates[1].TransactionID)
}

func (suite *TransactionRepositoryTestSuite) TestHasTransactionsForAccount_ChecksBothSides() {
	ctx := context.Background()

	txn := suite.newTransaction(time.Now().UTC())
	txn.Kind = domain.KindTransfer
	txn.DestinationAccountID = suite.other.AccountID
	suite.Require().NoError(suite.repos.TransactionRepo.SaveTransaction(ctx, txn, nil))

	source, err := suite.repos.TransactionRepo.HasTransactionsForAccount(ctx, suite.account.AccountID)
	suite.Require().NoError(err)
	suite.True(source)

	dest, err := suite.repos.TransactionRepo.HasTransactionsForAccount(ctx, suite.other.AccountID)
	suite.Require().NoError(err)
	suite.True(dest)

	none, err := suite.repos.TransactionRepo.HasTransactionsForAccount(ctx, uuid.NewString())
	suite.Require().NoError(err)
	suite.False(none)
}

func (suite *TransactionRepositoryTestSuite) TestUpdateAndDelete_UnknownIDReturnNotFound() {
	ctx := context.Background()
	txn := suite.newTransaction(time.Now().UTC())

	err := suite.repos.TransactionRepo.UpdateTransaction(ctx, txn, nil)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	err = suite.repos.TransactionRepo.DeleteTransaction(ctx, txn.TransactionID, nil)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestTransactionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositoryTestSuite))
}
