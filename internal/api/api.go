// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/storepulse/storepulse/internal/api/handlers"
	"github.com/storepulse/storepulse/internal/api/middleware"
	"github.com/storepulse/storepulse/internal/service"
)

type Services struct {
	SearchService *service.SearchService
	AlertService  *service.AlertService
	ReportService *service.ReportService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.SearchService != nil {
			searchHandler := handlers.NewSearchHandler(services.SearchService)
			searchGroup := apiGroup.Group("/search")
			{
				searchGroup.GET("", searchHandler.Search)
				searchGroup.GET("/autocomplete", searchHandler.Autocomplete)
			}
		}

		if services.AlertService != nil {
			alertHandler := handlers.NewAlertHandler(services.AlertService)
			apiGroup.GET("/alerts/stock", alertHandler.GetStockAlerts)
		}

		if services.ReportService != nil {
			reportHandler := handlers.NewReportHandler(services.ReportService)
			apiGroup.GET("/reports/financial", reportHandler.GetFinancialSummary)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
