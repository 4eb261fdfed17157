package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pocketfolio/personal_finance_app/internal/apperrors"
	"github.com/pocketfolio/personal_finance_app/internal/core/domain"
	portssvc "github.com/pocketfolio/personal_finance_app/internal/core/ports/services"
	"github.com/pocketfolio/personal_finance_app/internal/dto"
	"github.com/pocketfolio/personal_finance_app/internal/middleware"
)

// rateHandler handles HTTP requests for exchange rates and conversions.
type rateHandler struct {
	rateService     portssvc.RateSvcFacade
	settingsService portssvc.SettingsSvcFacade
}

// registerRateRoutes registers routes related to exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade, settingsService portssvc.SettingsSvcFacade) {
	h := &rateHandler{rateService: rateService, settingsService: settingsService}

	rates := rg.Group("/rates")
	{
		rates.PUT("", h.updateRates)
		rates.GET("", h.listRates)
		rates.GET("/resolve", h.resolveRate)
		rates.GET("/convert", h.convert)
	}
}

func (h *rateHandler) updateRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rates := make([]domain.Rate, len(req.Rates))
	for i, in := range req.Rates {
		rates[i] = domain.Rate{
			FromCurrencyCode: in.FromCurrencyCode,
			ToCurrencyCode:   in.ToCurrencyCode,
			Rate:             in.Rate,
		}
	}

	if err := h.rateService.UpdateRates(c.Request.Context(), rates); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update rates", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rates"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *rateHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rates, err := h.rateService.ListRates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListRateResponse(rates))
}

// resolveRate resolves a conversion rate between two currencies using the
// query parameters from and to. A missing path is not an error: the response
// carries priced=false.
func (h *rateHandler) resolveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))
	if len(from) != 3 || len(to) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to must be 3-letter currency codes"})
		return
	}

	rate, priced, err := h.rateService.GetRate(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to resolve rate", slog.String("from", from), slog.String("to", to), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve rate"})
		return
	}

	c.JSON(http.StatusOK, dto.ResolvedRateResponse{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             rate,
		Priced:           priced,
	})
}

// convert prices an amount (query parameters amount and from) into the base
// currency.
func (h *rateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := strings.ToUpper(c.Query("from"))
	if len(from) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a 3-letter currency code"})
		return
	}
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a decimal number"})
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		logger.Error("Failed to load settings for conversion", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert amount"})
		return
	}

	converted, priced, err := h.rateService.Convert(c.Request.Context(), amount, from)
	if err != nil {
		logger.Error("Failed to convert amount", slog.String("from", from), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert amount"})
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		Amount:       amount,
		FromCurrency: from,
		BaseCurrency: settings.BaseCurrency,
		Converted:    converted,
		Priced:       priced,
	})
}
