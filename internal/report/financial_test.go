package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storepulse/storepulse/internal/domain"
)

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func reportProducts() []domain.Product {
	return []domain.Product{
		{ProductID: "P001", Name: "Sữa tươi", Category: "Dairy", CostPrice: money(20000), SellPrice: money(30000)},
		{ProductID: "P002", Name: "Trà xanh", Category: "Beverage", CostPrice: money(8000), SellPrice: money(12000)},
		{ProductID: "P003", Name: "Bánh mì", Category: "", CostPrice: money(5000), SellPrice: money(7000)},
	}
}

func sale(productID string, qty int, date time.Time) domain.Transaction {
	return domain.Transaction{ProductID: productID, Type: domain.TransExport, Quantity: qty, Date: date}
}

var october = time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC)

func TestComputeTotals(t *testing.T) {
	transactions := []domain.Transaction{
		sale("P001", 4, october),
		sale("P002", 3, october),
	}

	summary, err := Compute(reportProducts(), transactions, Options{Month: 10, Year: 2025, Currency: "VND", Location: time.UTC})
	require.NoError(t, err)

	assert.Equal(t, "156000", summary.TotalRevenue.String())
	assert.Equal(t, "104000", summary.TotalCost.String())
	assert.Equal(t, "52000", summary.TotalProfit.String())
	assert.Equal(t, "VND", summary.Currency)
	assert.Equal(t, map[string]int{"P001": 4, "P002": 3}, summary.ProductSales)

	dairy := summary.ByCategory["Dairy"]
	assert.Equal(t, "120000", dairy.Revenue.String())
	assert.Equal(t, "80000", dairy.Cost.String())
	assert.Equal(t, "40000", dairy.Profit.String())
	assert.Equal(t, 4, dairy.Quantity)
}

func TestComputeImportsAreCostOnly(t *testing.T) {
	transactions := []domain.Transaction{
		{ProductID: "P001", Type: domain.TransImport, Quantity: 3, Date: october},
	}

	summary, err := Compute(reportProducts(), transactions, Options{Location: time.UTC})
	require.NoError(t, err)

	assert.True(t, summary.TotalRevenue.IsZero())
	assert.Equal(t, "60000", summary.TotalCost.String())
	assert.Equal(t, "-60000", summary.TotalProfit.String())
	assert.Empty(t, summary.ProductSales)
	assert.Empty(t, summary.ByCategory, "only sales feed the category breakdown")
}

func TestComputeUnknownProduct(t *testing.T) {
	transactions := []domain.Transaction{sale("GHOST", 5, october)}

	summary, err := Compute(reportProducts(), transactions, Options{Location: time.UTC})
	require.NoError(t, err)

	assert.True(t, summary.TotalRevenue.IsZero())
	assert.Equal(t, 5, summary.ProductSales["GHOST"], "quantity is still recorded")
	require.Len(t, summary.TopSellers, 1)
	assert.Equal(t, "GHOST", summary.TopSellers[0].ProductID)
	assert.Empty(t, summary.TopSellers[0].Name)
	assert.Empty(t, summary.ByCategory, "sales outside the catalog reach no category bucket")
}

func TestComputePeriodFilter(t *testing.T) {
	transactions := []domain.Transaction{
		sale("P001", 4, october),
		sale("P001", 10, time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)),
		sale("P001", 10, time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)),
	}

	summary, err := Compute(reportProducts(), transactions, Options{Month: 10, Year: 2025, Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, 4, summary.ProductSales["P001"])

	yearOnly, err := Compute(reportProducts(), transactions, Options{Year: 2025, Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, 14, yearOnly.ProductSales["P001"])

	all, err := Compute(reportProducts(), transactions, Options{Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, 24, all.ProductSales["P001"])
}

func TestComputeInvalidPeriod(t *testing.T) {
	_, err := Compute(nil, nil, Options{Month: 13, Year: 2025})
	assert.Error(t, err)

	_, err = Compute(nil, nil, Options{Month: 10})
	assert.Error(t, err)
}

func TestComputeTopSellersOrdering(t *testing.T) {
	transactions := []domain.Transaction{
		sale("P002", 5, october),
		sale("P001", 5, october),
		sale("P003", 9, october),
	}

	summary, err := Compute(reportProducts(), transactions, Options{TopK: 2, Location: time.UTC})
	require.NoError(t, err)

	require.Len(t, summary.TopSellers, 2)
	assert.Equal(t, "P003", summary.TopSellers[0].ProductID)
	// Tie on quantity breaks on product id.
	assert.Equal(t, "P001", summary.TopSellers[1].ProductID)
}

func TestComputeLeastPurchased(t *testing.T) {
	transactions := []domain.Transaction{
		sale("P001", 9, october),
		sale("P002", 2, october),
	}

	summary, err := Compute(reportProducts(), transactions, Options{Location: time.UTC})
	require.NoError(t, err)
	require.Len(t, summary.LeastPurchased, 2)
	assert.Equal(t, "P002", summary.LeastPurchased[0].ProductID)

	withZero, err := Compute(reportProducts(), transactions, Options{IncludeZeroSales: true, Location: time.UTC})
	require.NoError(t, err)
	require.Len(t, withZero.LeastPurchased, 3)
	assert.Equal(t, "P003", withZero.LeastPurchased[0].ProductID)
	assert.Equal(t, 0, withZero.LeastPurchased[0].Quantity)
}

func TestComputeUncategorizedBucket(t *testing.T) {
	transactions := []domain.Transaction{sale("P003", 2, october)}

	summary, err := Compute(reportProducts(), transactions, Options{Location: time.UTC})
	require.NoError(t, err)

	bucket, ok := summary.ByCategory[domain.UncategorizedBucket]
	require.True(t, ok)
	assert.Equal(t, "14000", bucket.Revenue.String())
	assert.Equal(t, 2, bucket.Quantity)
}

func TestComputeCategoryTotalsAddUp(t *testing.T) {
	transactions := []domain.Transaction{
		sale("P001", 4, october),
		sale("P002", 3, october),
		sale("P003", 2, october),
	}

	summary, err := Compute(reportProducts(), transactions, Options{Location: time.UTC})
	require.NoError(t, err)

	revenue := decimal.Zero
	for _, b := range summary.ByCategory {
		revenue = revenue.Add(b.Revenue)
	}
	assert.True(t, revenue.Equal(summary.TotalRevenue))
}
