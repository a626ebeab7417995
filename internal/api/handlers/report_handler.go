package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/storepulse/storepulse/internal/service"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetFinancialSummary handles GET /api/v1/reports/financial
func (h *ReportHandler) GetFinancialSummary(c *gin.Context) {
	params := service.ReportParams{
		Currency: strings.TrimSpace(c.Query("currency")),
	}

	if month, err := strconv.Atoi(c.DefaultQuery("month", "0")); err == nil {
		params.Month = month
	}
	if year, err := strconv.Atoi(c.DefaultQuery("year", "0")); err == nil {
		params.Year = year
	}
	if topK, err := strconv.Atoi(c.DefaultQuery("top_k", "0")); err == nil && topK > 0 {
		params.TopK = topK
	}
	if include, err := strconv.ParseBool(c.DefaultQuery("include_zero_sales", "false")); err == nil {
		params.IncludeZeroSales = include
	}
	if export, err := strconv.ParseBool(c.DefaultQuery("export", "false")); err == nil {
		params.Export = export
	}
	if upload, err := strconv.ParseBool(c.DefaultQuery("upload", "false")); err == nil {
		params.Upload = upload
	}

	summary, path, err := h.service.Financial(c.Request.Context(), params)
	if err != nil {
		if summary.GeneratedAt.IsZero() {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		// Computed but not exported: return the summary with the error.
		log.Error().Err(err).Msg("summary export failed")
		c.JSON(http.StatusOK, gin.H{"summary": summary, "export_error": err.Error()})
		return
	}

	response := gin.H{"summary": summary}
	if path != "" {
		response["export_path"] = path
	}
	c.JSON(http.StatusOK, response)
}
