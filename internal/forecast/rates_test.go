package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/storepulse/storepulse/internal/domain"
)

var testAnchor = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func tx(productID string, transType domain.TransType, qty int, daysAgo int) domain.Transaction {
	return domain.Transaction{
		ProductID: productID,
		Type:      transType,
		Quantity:  qty,
		Date:      testAnchor.AddDate(0, 0, -daysAgo),
	}
}

func TestSaleRates(t *testing.T) {
	transactions := []domain.Transaction{
		tx("P001", domain.TransExport, 30, 5),
		tx("P001", domain.TransExport, 30, 10),
		tx("P002", domain.TransExport, 7, 1),
		tx("P002", domain.TransImport, 100, 2), // imports never count
		tx("P003", domain.TransExport, 50, 45), // outside the window
	}

	rates := SaleRates(transactions, EstimatorConfig{LookbackDays: 30, Now: testAnchor, Location: time.UTC})

	assert.Equal(t, 2.0, rates["P001"])
	assert.InDelta(t, 0.23, rates["P002"], 0.001) // 7/30 rounded to 2dp
	_, ok := rates["P003"]
	assert.False(t, ok, "products with no sales in the window get no entry")
}

func TestSaleRatesWindowBounds(t *testing.T) {
	future := domain.Transaction{
		ProductID: "P001",
		Type:      domain.TransExport,
		Quantity:  10,
		Date:      testAnchor.AddDate(0, 0, 1),
	}
	rates := SaleRates([]domain.Transaction{future}, EstimatorConfig{LookbackDays: 30, Now: testAnchor, Location: time.UTC})
	assert.Empty(t, rates, "transactions after the anchor are ignored")
}

func TestSaleRatesDividesByLookbackNotActiveDays(t *testing.T) {
	// One sale of 60 units on a single day still averages over the
	// whole window.
	transactions := []domain.Transaction{tx("P001", domain.TransExport, 60, 3)}
	rates := SaleRates(transactions, EstimatorConfig{LookbackDays: 30, Now: testAnchor, Location: time.UTC})
	assert.Equal(t, 2.0, rates["P001"])
}

func TestSaleRatesProductFilter(t *testing.T) {
	transactions := []domain.Transaction{
		tx("P001", domain.TransExport, 30, 5),
		tx("P002", domain.TransExport, 30, 5),
	}

	rates := SaleRates(transactions, EstimatorConfig{
		LookbackDays: 30,
		Now:          testAnchor,
		Location:     time.UTC,
		ProductIDs:   []string{"P001"},
	})
	assert.Len(t, rates, 1)
	assert.Equal(t, 1.0, rates["P001"])
}

func TestSaleRatesDefaultLookback(t *testing.T) {
	transactions := []domain.Transaction{tx("P001", domain.TransExport, 60, 3)}
	rates := SaleRates(transactions, EstimatorConfig{Now: testAnchor, Location: time.UTC})
	assert.Equal(t, 2.0, rates["P001"])
}
