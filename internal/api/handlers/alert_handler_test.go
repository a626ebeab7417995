package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storepulse/storepulse/internal/catalog"
	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/domain"
	"github.com/storepulse/storepulse/internal/service"
)

func newAlertRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := catalog.NewMemoryStore()
	store.SetProducts([]domain.Product{
		{ProductID: "P001", Name: "Sữa tươi", Category: "Dairy", CostPrice: decimal.NewFromInt(20000), SellPrice: decimal.NewFromInt(30000), StockQuantity: 0, MinThreshold: 10},
		{ProductID: "P002", Name: "Trà xanh", Category: "Beverage", CostPrice: decimal.NewFromInt(8000), SellPrice: decimal.NewFromInt(12000), StockQuantity: 4, MinThreshold: 10},
	})

	svc := service.NewAlertService(store, config.ForecastConfig{LookbackDays: 30, LeadTimeDays: 7, PredictSoonDays: 7}, time.UTC)
	handler := NewAlertHandler(svc)

	router := gin.New()
	router.GET("/api/v1/alerts/stock", handler.GetStockAlerts)
	return router
}

func TestStockAlertsEndpoint(t *testing.T) {
	router := newAlertRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/stock?reorder_buffer=2", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var report domain.AlertReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.OutOfStock, 1)
	require.Len(t, report.LowStock, 1)
	assert.Equal(t, "P001", report.OutOfStock[0].ProductID)
	assert.Equal(t, 12, report.OutOfStock[0].Needed)
	assert.Equal(t, 8, report.LowStock[0].Needed)
	assert.Equal(t, 20, report.TotalNeeded)
}
