package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storepulse/storepulse/internal/domain"
)

func alertProducts() []domain.Product {
	return []domain.Product{
		{ProductID: "P001", Name: "Sữa tươi", Category: "Dairy", StockQuantity: 5, MinThreshold: 20, Unit: "hộp"},
		{ProductID: "P002", Name: "Trà xanh", Category: "Beverage", StockQuantity: 0, MinThreshold: 10, Unit: "chai"},
		{ProductID: "P003", Name: "Bánh mì", Category: "Bakery", StockQuantity: 50, MinThreshold: 5, Unit: "cái"},
	}
}

func TestGenerateAlerts(t *testing.T) {
	transactions := []domain.Transaction{tx("P001", domain.TransExport, 60, 3)}

	report := GenerateAlerts(alertProducts(), transactions, AlertConfig{
		LookbackDays:    30,
		LeadTimeDays:    7,
		PredictSoonDays: 7,
		SuggestOrders:   true,
		Now:             testAnchor,
		Location:        time.UTC,
	})

	require.Len(t, report.LowStock, 1)
	require.Len(t, report.OutOfStock, 1)

	low := report.LowStock[0]
	assert.Equal(t, "P001", low.ProductID)
	assert.Equal(t, domain.StockLow, low.Status)
	assert.Equal(t, 15, low.Needed)
	require.NotNil(t, low.DailySaleRate)
	assert.Equal(t, 2.0, *low.DailySaleRate)
	require.NotNil(t, low.DaysUntilStockout)
	assert.Equal(t, 2.5, *low.DaysUntilStockout)
	require.NotNil(t, low.PredictedOutSoon)
	assert.True(t, *low.PredictedOutSoon)
	require.NotNil(t, low.SuggestedOrder)
	assert.Equal(t, 11, *low.SuggestedOrder)

	out := report.OutOfStock[0]
	assert.Equal(t, "P002", out.ProductID)
	assert.Equal(t, domain.StockOut, out.Status)
	assert.Equal(t, 10, out.Needed)
	assert.Nil(t, out.DailySaleRate, "no sales history, no forecast")
	assert.Nil(t, out.DaysUntilStockout)
	require.NotNil(t, out.SuggestedOrder)
	assert.Equal(t, 10, *out.SuggestedOrder)

	assert.Equal(t, 25, report.TotalNeeded)
	assert.Equal(t, domain.CategoryAlertCount{LowStock: 1}, report.ByCategory["Dairy"])
	assert.Equal(t, domain.CategoryAlertCount{OutOfStock: 1}, report.ByCategory["Beverage"])
	_, ok := report.ByCategory["Bakery"]
	assert.False(t, ok, "healthy products raise no alerts")
}

func TestGenerateAlertsReorderBuffer(t *testing.T) {
	report := GenerateAlerts(alertProducts(), nil, AlertConfig{
		ReorderBuffer: 5,
		Now:           testAnchor,
		Location:      time.UTC,
	})

	require.Len(t, report.LowStock, 1)
	assert.Equal(t, 20, report.LowStock[0].Needed)
	require.Len(t, report.OutOfStock, 1)
	assert.Equal(t, 15, report.OutOfStock[0].Needed)
	assert.Equal(t, 35, report.TotalNeeded)
}

func TestGenerateAlertsPredictedOutSoonBoundary(t *testing.T) {
	// 14 units in stock selling 2/day: exactly 7 days of cover counts
	// as predicted-out-soon.
	products := []domain.Product{
		{ProductID: "P001", Category: "Dairy", StockQuantity: 14, MinThreshold: 20},
	}
	transactions := []domain.Transaction{tx("P001", domain.TransExport, 60, 3)}

	report := GenerateAlerts(products, transactions, AlertConfig{
		LookbackDays:    30,
		PredictSoonDays: 7,
		Now:             testAnchor,
		Location:        time.UTC,
	})

	require.Len(t, report.LowStock, 1)
	alert := report.LowStock[0]
	require.NotNil(t, alert.DaysUntilStockout)
	assert.Equal(t, 7.0, *alert.DaysUntilStockout)
	require.NotNil(t, alert.PredictedOutSoon)
	assert.True(t, *alert.PredictedOutSoon)
	assert.Nil(t, alert.SuggestedOrder, "suggestions are opt-in")
}

func TestGenerateAlertsSortedByProductID(t *testing.T) {
	products := []domain.Product{
		{ProductID: "P009", StockQuantity: 0, MinThreshold: 5},
		{ProductID: "P001", StockQuantity: 0, MinThreshold: 5},
	}
	report := GenerateAlerts(products, nil, AlertConfig{Now: testAnchor, Location: time.UTC})

	require.Len(t, report.OutOfStock, 2)
	assert.Equal(t, "P001", report.OutOfStock[0].ProductID)
	assert.Equal(t, "P009", report.OutOfStock[1].ProductID)
}
