package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portsrepo "github.com/pocketfolio/personal_finance_app/internal/core/ports/repositories"
	portssvc "github.com/pocketfolio/personal_finance_app/internal/core/ports/services"
	"github.com/pocketfolio/personal_finance_app/internal/dto"
)

var ErrNotRecurring = errors.New("transaction is not an armed recurring template")

// recurrenceService drives recurring transaction templates: it surfaces due
// templates and, on explicit request, materializes a concrete instance
// through the transaction service and advances the template's schedule.
type recurrenceService struct {
	BaseService
	txnRepo portsrepo.TransactionRepository
	txnSvc  portssvc.TransactionSvcFacade
}

// NewRecurrenceService creates a new RecurrenceSvcFacade.
func NewRecurrenceService(txnRepo portsrepo.TransactionRepository, txnSvc portssvc.TransactionSvcFacade) portssvc.RecurrenceSvcFacade {
	return &recurrenceService{
		txnRepo: txnRepo,
		txnSvc:  txnSvc,
	}
}

var _ portssvc.RecurrenceSvcFacade = (*recurrenceService)(nil)

// startOfDay truncates a time to its calendar day in UTC. Due detection works
// at day granularity: a template is due when its next date is today or earlier.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// addMonthsClamped advances a date by whole calendar months, preserving the
// day-of-month and clamping to the last day of the target month when it is
// shorter. 2024-01-31 + 1 month = 2024-02-29; 2023-01-31 + 1 month =
// 2023-02-28. This is deliberate: time.AddDate would normalize Jan 31 + 1
// month into early March.
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, time.UTC)
}

// nextOccurrence advances a schedule date by one period.
func nextOccurrence(from time.Time, frequency domain.RecurrenceFrequency) (time.Time, error) {
	from = startOfDay(from)
	switch frequency {
	case domain.Daily:
		return from.AddDate(0, 0, 1), nil
	case domain.Weekly:
		return from.AddDate(0, 0, 7), nil
	case domain.Monthly:
		return addMonthsClamped(from, 1), nil
	case domain.Yearly:
		return addMonthsClamped(from, 12), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown recurrence frequency %q", apperrors.ErrValidation, frequency)
	}
}

// ListReminders scans all armed templates and splits them into due and
// upcoming relative to now, each sorted soonest-first. The sweep never logs
// anything itself, so repeating it is safe: due detection stays idempotent
// until a template is explicitly logged.
func (s *recurrenceService) ListReminders(ctx context.Context, now time.Time) (*portssvc.Reminders, error) {
	templates, err := s.txnRepo.ListRecurringTransactions(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurring templates")
		return nil, fmt.Errorf("failed to list recurring templates: %w", err)
	}

	today := startOfDay(now)
	reminders := &portssvc.Reminders{
		Due:      []domain.Transaction{},
		Upcoming: []domain.Transaction{},
	}
	for _, t := range templates {
		if !t.IsRecurring || t.NextRecurrenceDate == nil {
			continue
		}
		if !startOfDay(*t.NextRecurrenceDate).After(today) {
			reminders.Due = append(reminders.Due, t)
		} else {
			reminders.Upcoming = append(reminders.Upcoming, t)
		}
	}

	byNextDate := func(txns []domain.Transaction) func(i, j int) bool {
		return func(i, j int) bool {
			return txns[i].NextRecurrenceDate.Before(*txns[j].NextRecurrenceDate)
		}
	}
	sort.Slice(reminders.Due, byNextDate(reminders.Due))
	sort.Slice(reminders.Upcoming, byNextDate(reminders.Upcoming))

	s.LogDebug(ctx, "Recurrence sweep completed",
		slog.Int("due", len(reminders.Due)),
		slog.Int("upcoming", len(reminders.Upcoming)))
	return reminders, nil
}

// LogRecurringTransaction materializes the template as a one-off transaction
// dated now and advances the template's schedule by one period. When an end
// date exists and the advanced date passes it, the series terminates: the
// recurrence fields are cleared and the template stays in the log as a plain
// record.
func (s *recurrenceService) LogRecurringTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	template, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !template.IsRecurring || template.NextRecurrenceDate == nil {
		return nil, fmt.Errorf("%w: %v: %s", apperrors.ErrValidation, ErrNotRecurring, transactionID)
	}

	// Clone the template into a concrete instance dated now, with the
	// recurrence fields stripped, and submit it through the normal Add path
	// so balances update through the usual batch mechanism.
	instance, err := s.txnSvc.CreateTransaction(ctx, dto.CreateTransactionRequest{
		OccurredAt:           time.Now().UTC(),
		Kind:                 template.Kind,
		AccountID:            template.AccountID,
		Amount:               template.Amount,
		CurrencyCode:         template.CurrencyCode,
		Category:             template.Category,
		Merchant:             template.Merchant,
		Note:                 template.Note,
		BaseCurrencyAmount:   template.BaseCurrencyAmount,
		ExchangeRate:         template.ExchangeRate,
		DestinationAccountID: template.DestinationAccountID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to log recurring transaction %s: %w", transactionID, err)
	}

	next, err := nextOccurrence(*template.NextRecurrenceDate, template.RecurrenceFrequency)
	if err != nil {
		return nil, err
	}

	updated := *template
	if updated.RecurrenceEndDate != nil && next.After(startOfDay(*updated.RecurrenceEndDate)) {
		updated.IsRecurring = false
		updated.RecurrenceFrequency = ""
		updated.RecurrenceEndDate = nil
		updated.NextRecurrenceDate = nil
		s.LogInfo(ctx, "Recurring series terminated", slog.String("transaction_id", transactionID))
	} else {
		updated.NextRecurrenceDate = &next
	}
	updated.LastUpdatedAt = time.Now().UTC()

	// Advancing the schedule moves no money: the template's amounts are
	// unchanged, so the update carries no balance deltas.
	if err := s.txnRepo.UpdateTransaction(ctx, updated, nil); err != nil {
		s.LogError(ctx, err, "Failed to advance recurring template", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to advance recurring template: %w", err)
	}

	s.LogInfo(ctx, "Recurring transaction logged",
		slog.String("template_id", transactionID),
		slog.String("instance_id", instance.TransactionID))
	return instance, nil
}
