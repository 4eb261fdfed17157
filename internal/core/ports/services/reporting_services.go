package services

import (
	"context"
	"time"

	"github.com/pocketfolio/personal_finance_app/internal/dto"
)

// ReportingSvcFacade aggregates ledger figures normalized to the base
// currency. Recorded settlements are authoritative for historical figures;
// live conversion is used only where no settlement was recorded, degrading
// unpriced amounts to zero.
type ReportingSvcFacade interface {
	// MonthlySummary reports income and outflow totals for the calendar month
	// containing ref, net worth across all accounts, and spending by category.
	MonthlySummary(ctx context.Context, ref time.Time) (*dto.MonthlySummaryResponse, error)
}
