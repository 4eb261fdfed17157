package services

import (
	"context"
	"time"

	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
)

// Reminders is the result of a recurrence sweep: templates due now (next
// occurrence today or earlier) and templates upcoming later, each sorted
// soonest-first.
type Reminders struct {
	Due      []domain.Transaction `json:"due"`
	Upcoming []domain.Transaction `json:"upcoming"`
}

// RecurrenceSvcFacade drives recurring transaction templates. A sweep only
// surfaces due templates; materializing an instance requires an explicit
// LogRecurringTransaction call.
type RecurrenceSvcFacade interface {
	// ListReminders scans all armed templates and splits them into due and
	// upcoming relative to now (day granularity). Safe to call repeatedly;
	// due detection is idempotent until a template is logged.
	ListReminders(ctx context.Context, now time.Time) (*Reminders, error)

	// LogRecurringTransaction materializes the template as a concrete one-off
	// transaction dated now, then advances the template's schedule by one
	// period, terminating the series if the advanced date passes the end date.
	LogRecurringTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
}
