package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storepulse/storepulse/internal/domain"
)

func TestExportAlertsCSV(t *testing.T) {
	rate, days := 2.0, 2.5
	order := 11
	r := domain.AlertReport{
		GeneratedAt: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		OutOfStock: []domain.Alert{
			{ProductID: "P002", Name: "Trà xanh", Category: "Beverage", Status: domain.StockOut, MinThreshold: 10, Unit: "chai", Needed: 10},
		},
		LowStock: []domain.Alert{
			{ProductID: "P001", Name: "Sữa tươi", Category: "Dairy", Status: domain.StockLow, StockQuantity: 5, MinThreshold: 20, Unit: "hộp", Needed: 15,
				DailySaleRate: &rate, DaysUntilStockout: &days, SuggestedOrder: &order},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportAlertsCSV(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "product_id,name,category,status,stock_quantity,min_threshold,unit,needed,daily_sale_rate,days_until_stockout,suggested_order\n")
	assert.Contains(t, out, "P002,Trà xanh,Beverage,OUT_OF_STOCK,0,10,chai,10,,,\n")
	assert.Contains(t, out, "P001,Sữa tươi,Dairy,LOW_STOCK,5,20,hộp,15,2.00,2.50,11\n")
}

func TestWriteAlertsFile(t *testing.T) {
	dir := t.TempDir()
	r := domain.AlertReport{GeneratedAt: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)}

	path, err := WriteAlertsFile(dir, r)
	require.NoError(t, err)
	assert.Contains(t, path, "stock_alerts_20251015.csv")
}
