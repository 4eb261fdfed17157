package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
)

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// newPgxTransactionRepository creates a new repository for the transaction
// log. It shares the account repository so log mutations and balance updates
// run in one database transaction with the account rows locked.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, occurred_at, kind, account_id, amount, currency_code,
		category, merchant, note, base_currency_amount, exchange_rate, destination_account_id,
		is_recurring, recurrence_frequency, recurrence_end_date, next_recurrence_date,
		created_at, last_updated_at`

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var (
		txn           domain.Transaction
		baseAmount    decimal.NullDecimal
		exchangeRate  decimal.NullDecimal
		destinationID sql.NullString
		frequency     sql.NullString
		endDate       sql.NullTime
		nextDate      sql.NullTime
	)
	err := row.Scan(
		&txn.TransactionID,
		&txn.OccurredAt,
		&txn.Kind,
		&txn.AccountID,
		&txn.Amount,
		&txn.CurrencyCode,
		&txn.Category,
		&txn.Merchant,
		&txn.Note,
		&baseAmount,
		&exchangeRate,
		&destinationID,
		&txn.IsRecurring,
		&frequency,
		&endDate,
		&nextDate,
		&txn.CreatedAt,
		&txn.LastUpdatedAt,
	)
	if err != nil {
		return domain.Transaction{}, err
	}

	if baseAmount.Valid {
		txn.BaseCurrencyAmount = &baseAmount.Decimal
	}
	if exchangeRate.Valid {
		txn.ExchangeRate = &exchangeRate.Decimal
	}
	if destinationID.Valid {
		txn.DestinationAccountID = destinationID.String
	}
	if frequency.Valid {
		txn.RecurrenceFrequency = domain.RecurrenceFrequency(frequency.String)
	}
	if endDate.Valid {
		t := endDate.Time
		txn.RecurrenceEndDate = &t
	}
	if nextDate.Valid {
		t := nextDate.Time
		txn.NextRecurrenceDate = &t
	}
	return txn, nil
}

func transactionArgs(txn domain.Transaction) []any {
	return []any{
		txn.TransactionID,
		txn.OccurredAt,
		txn.Kind,
		txn.AccountID,
		txn.Amount,
		txn.CurrencyCode,
		txn.Category,
		txn.Merchant,
		txn.Note,
		nullDecimal(txn.BaseCurrencyAmount),
		nullDecimal(txn.ExchangeRate),
		nullString(txn.DestinationAccountID),
		txn.IsRecurring,
		nullString(string(txn.RecurrenceFrequency)),
		nullTime(txn.RecurrenceEndDate),
		nullTime(txn.NextRecurrenceDate),
		txn.CreatedAt,
		txn.LastUpdatedAt,
	}
}

// applyBalanceChanges locks the affected account rows and applies the deltas
// inside tx. Zero-delta entries still require the account to exist.
func (r *PgxTransactionRepository) applyBalanceChanges(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if _, err := r.accountRepo.findAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return err
	}
	return r.accountRepo.updateAccountBalancesInTx(ctx, tx, balanceChanges, now)
}

// SaveTransaction inserts a log entry and applies its balance deltas in one
// database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	if _, err := tx.Exec(ctx, query, transactionArgs(txn)...); err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}
	if err := r.applyBalanceChanges(ctx, tx, balanceChanges, txn.CreatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1;
	`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return &txn, nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY occurred_at DESC, created_at DESC, transaction_id;
	`
	return r.queryTransactions(ctx, query)
}

func (r *PgxTransactionRepository) ListRecurringTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE is_recurring AND next_recurrence_date IS NOT NULL
		ORDER BY next_recurrence_date, transaction_id;
	`
	return r.queryTransactions(ctx, query)
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

// UpdateTransaction replaces a log entry and applies the accompanying balance
// deltas in one database transaction.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE transactions
		SET occurred_at = $2, kind = $3, account_id = $4, amount = $5, currency_code = $6,
			category = $7, merchant = $8, note = $9, base_currency_amount = $10,
			exchange_rate = $11, destination_account_id = $12, is_recurring = $13,
			recurrence_frequency = $14, recurrence_end_date = $15, next_recurrence_date = $16,
			created_at = $17, last_updated_at = $18
		WHERE transaction_id = $1;
	`
	ct, err := tx.Exec(ctx, query, transactionArgs(txn)...)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", txn.TransactionID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, txn.TransactionID)
	}
	if err := r.applyBalanceChanges(ctx, tx, balanceChanges, txn.LastUpdatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteTransaction removes a log entry and applies the reverting balance
// deltas in one database transaction.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	ct, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	if err := r.applyBalanceChanges(ctx, tx, balanceChanges, time.Now().UTC()); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) HasTransactionsForAccount(ctx context.Context, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE account_id = $1 OR destination_account_id = $1
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check transactions for account %s: %w", accountID, err)
	}
	return exists, nil
}
