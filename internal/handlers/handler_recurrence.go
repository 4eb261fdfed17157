package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portssvc "github.com/pocketfolio/personal_finance_app/internal/core/ports/services"
	"github.com/pocketfolio/personal_finance_app/internal/dto"
	"github.com/pocketfolio/personal_finance_app/internal/middleware"
)

// recurrenceHandler handles HTTP requests for recurring transaction templates.
type recurrenceHandler struct {
	recurrenceService portssvc.RecurrenceSvcFacade
}

// registerRecurrenceRoutes registers routes related to recurring transactions.
func registerRecurrenceRoutes(rg *gin.RouterGroup, recurrenceService portssvc.RecurrenceSvcFacade) {
	h := &recurrenceHandler{recurrenceService: recurrenceService}

	rg.GET("/reminders", h.listReminders)
	rg.POST("/transactions/:id/log-recurring", h.logRecurring)
}

// reminderItem is a due template together with how many whole days overdue
// it is (0 means due today).
type reminderItem struct {
	dto.TransactionResponse
	OverdueDays int `json:"overdueDays"`
}

// remindersResponse splits armed templates into due and upcoming.
type remindersResponse struct {
	Due      []reminderItem            `json:"due"`
	Upcoming []dto.TransactionResponse `json:"upcoming"`
}

func toReminderItems(txns []domain.Transaction, now time.Time) []reminderItem {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	items := make([]reminderItem, len(txns))
	for i := range txns {
		overdue := 0
		if next := txns[i].NextRecurrenceDate; next != nil {
			overdue = int(today.Sub(next.UTC().Truncate(24*time.Hour)).Hours() / 24)
		}
		items[i] = reminderItem{
			TransactionResponse: dto.ToTransactionResponse(&txns[i]),
			OverdueDays:         overdue,
		}
	}
	return items
}

func (h *recurrenceHandler) listReminders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	now := time.Now().UTC()

	reminders, err := h.recurrenceService.ListReminders(c.Request.Context(), now)
	if err != nil {
		logger.Error("Failed to list reminders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reminders"})
		return
	}

	c.JSON(http.StatusOK, remindersResponse{
		Due:      toReminderItems(reminders.Due, now),
		Upcoming: dto.ToTransactionResponses(reminders.Upcoming),
	})
}

func (h *recurrenceHandler) logRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	instance, err := h.recurrenceService.LogRecurringTransaction(c.Request.Context(), transactionID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to log recurring transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log recurring transaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(instance))
}
