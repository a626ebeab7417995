// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransType is the direction of a stock movement.
type TransType string

const (
	TransImport TransType = "IMPORT"
	TransExport TransType = "EXPORT"
)

// StockStatus classifies a product's stock level against its threshold.
type StockStatus string

const (
	StockOut    StockStatus = "OUT_OF_STOCK"
	StockLow    StockStatus = "LOW_STOCK"
	StockNormal StockStatus = "NORMAL"
)

// UncategorizedBucket collects sold products without a catalog category.
const UncategorizedBucket = "uncategorized"

// Product is one catalog entry. Prices are fixed-point decimals; the
// catalog guarantees SellPrice >= CostPrice and non-negative quantities.
type Product struct {
	ProductID     string          `json:"product_id" db:"product_id"`
	Name          string          `json:"name" db:"name"`
	Category      string          `json:"category" db:"category"`
	CostPrice     decimal.Decimal `json:"cost_price" db:"cost_price"`
	SellPrice     decimal.Decimal `json:"sell_price" db:"sell_price"`
	StockQuantity int             `json:"stock_quantity" db:"stock_quantity"`
	MinThreshold  int             `json:"min_threshold" db:"min_threshold"`
	Unit          string          `json:"unit" db:"unit"`
}

// StockStatus labels the product's current stock level.
func (p Product) StockStatus() StockStatus {
	if p.StockQuantity <= 0 {
		return StockOut
	}
	if p.StockQuantity <= p.MinThreshold {
		return StockLow
	}
	return StockNormal
}

// Transaction is one ledger entry. Date is timezone-aware; naive source
// timestamps are resolved to the reporting timezone at load time.
type Transaction struct {
	TransactionID string    `json:"transaction_id" db:"transaction_id"`
	ProductID     string    `json:"product_id" db:"product_id"`
	Type          TransType `json:"trans_type" db:"trans_type"`
	Quantity      int       `json:"quantity" db:"quantity"`
	Date          time.Time `json:"date" db:"date"`
	Note          string    `json:"note" db:"note"`
}

// SearchResult is one ranked match with its product snapshot.
type SearchResult struct {
	Product
	MatchedField string      `json:"matched_field"`
	MatchType    string      `json:"match_type"`
	Score        int         `json:"search_score"`
	Status       StockStatus `json:"stock_status"`
}

// SearchPage is a page of ranked results plus whole-set aggregates.
// Total and Facets cover the entire matched set, not just the page.
type SearchPage struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
	Facets  map[string]int `json:"facets"`
}

// Alert flags a product that is out of stock or below threshold.
// Forecast fields are attached only when sales history supports them.
type Alert struct {
	ProductID         string      `json:"product_id"`
	Name              string      `json:"name"`
	Category          string      `json:"category"`
	StockQuantity     int         `json:"stock_quantity"`
	MinThreshold      int         `json:"min_threshold"`
	Unit              string      `json:"unit"`
	Status            StockStatus `json:"status"`
	Needed            int         `json:"needed"`
	DailySaleRate     *float64    `json:"daily_sale_rate,omitempty"`
	DaysUntilStockout *float64    `json:"days_until_stockout,omitempty"`
	PredictedOutSoon  *bool       `json:"predicted_out_soon,omitempty"`
	SuggestedOrder    *int        `json:"suggested_order,omitempty"`
}

// CategoryAlertCount tallies alert states per category.
type CategoryAlertCount struct {
	OutOfStock int `json:"out_of_stock"`
	LowStock   int `json:"low_stock"`
}

// AlertReport is the full stock-alert output.
type AlertReport struct {
	GeneratedAt time.Time                     `json:"generated_at"`
	OutOfStock  []Alert                       `json:"out_of_stock"`
	LowStock    []Alert                       `json:"low_stock"`
	TotalNeeded int                           `json:"total_needed"`
	ByCategory  map[string]CategoryAlertCount `json:"by_category"`
}

// CategoryBreakdown sums sold-product money movement per category.
type CategoryBreakdown struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Cost     decimal.Decimal `json:"cost"`
	Profit   decimal.Decimal `json:"profit"`
	Quantity int             `json:"quantity"`
}

// ProductSales is one row in the top-sellers / least-purchased lists.
type ProductSales struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
}

// FinancialSummary is computed fresh per request; it depends on a moving
// time window and must never be cached across calls.
type FinancialSummary struct {
	Month          int                          `json:"month,omitempty"`
	Year           int                          `json:"year,omitempty"`
	Currency       string                       `json:"currency"`
	TotalRevenue   decimal.Decimal              `json:"total_revenue"`
	TotalCost      decimal.Decimal              `json:"total_cost"`
	TotalProfit    decimal.Decimal              `json:"total_profit"`
	ByCategory     map[string]CategoryBreakdown `json:"by_category"`
	TopSellers     []ProductSales               `json:"top_sellers"`
	LeastPurchased []ProductSales               `json:"least_purchased"`
	ProductSales   map[string]int               `json:"product_sales"`
	GeneratedAt    time.Time                    `json:"generated_at"`
}
