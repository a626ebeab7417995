package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/storepulse/storepulse/internal/service"
)

type AlertHandler struct {
	service *service.AlertService
}

func NewAlertHandler(service *service.AlertService) *AlertHandler {
	return &AlertHandler{service: service}
}

// GetStockAlerts handles GET /api/v1/alerts/stock
func (h *AlertHandler) GetStockAlerts(c *gin.Context) {
	params := service.AlertParams{}

	if buffer, err := strconv.Atoi(c.DefaultQuery("reorder_buffer", "0")); err == nil && buffer > 0 {
		params.ReorderBuffer = buffer
	}
	if lookback, err := strconv.Atoi(c.DefaultQuery("lookback_days", "0")); err == nil && lookback > 0 {
		params.LookbackDays = lookback
	}
	if suggest, err := strconv.ParseBool(c.DefaultQuery("suggest_orders", "true")); err == nil {
		params.SuggestOrders = suggest
	} else {
		params.SuggestOrders = true
	}

	report, err := h.service.GenerateAlerts(c.Request.Context(), params)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to generate stock alerts")
		log.Error().Err(err).Msg("stock alert request failed")
		return
	}

	c.JSON(http.StatusOK, report)
}
