package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pocketfolio/personal_finance_app/internal/core/ports/services"
	"github.com/pocketfolio/personal_finance_app/internal/middleware"
)

// reportingHandler handles HTTP requests for aggregate reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// registerReportingRoutes registers routes related to reporting.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	reports.GET("/monthly-summary", h.monthlySummary)
}

// monthlySummary reports the calendar month given by the month query parameter
// (YYYY-MM), defaulting to the current month.
func (h *reportingHandler) monthlySummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ref := time.Now().UTC()
	if monthParam := c.Query("month"); monthParam != "" {
		parsed, err := time.Parse("2006-01", monthParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be formatted as YYYY-MM"})
			return
		}
		ref = parsed
	}

	summary, err := h.reportingService.MonthlySummary(c.Request.Context(), ref)
	if err != nil {
		logger.Error("Failed to compute monthly summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute monthly summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
