// internal/report/financial.go
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storepulse/storepulse/internal/domain"
)

// Options select the reporting period and shape the output lists.
// Month requires Year; Year alone covers the whole year; neither covers
// the full ledger.
type Options struct {
	Month            int
	Year             int
	TopK             int
	IncludeZeroSales bool
	Currency         string
	Location         *time.Location
}

func (o Options) topK() int {
	if o.TopK <= 0 {
		return 5
	}
	return o.TopK
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Compute aggregates the ledger into a financial summary. Outbound
// transactions contribute revenue and cost of goods sold; inbound ones
// contribute purchasing cost only. Quantities sold by products missing
// from the catalog are still counted, priced at zero. The result depends
// on the request period and must be computed fresh every call.
func Compute(products []domain.Product, transactions []domain.Transaction, opts Options) (domain.FinancialSummary, error) {
	if opts.Month != 0 && (opts.Month < 1 || opts.Month > 12) {
		return domain.FinancialSummary{}, fmt.Errorf("month must be between 1 and 12, got %d", opts.Month)
	}
	if opts.Month != 0 && opts.Year == 0 {
		return domain.FinancialSummary{}, fmt.Errorf("month filter requires a year")
	}

	loc := opts.location()
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	summary := domain.FinancialSummary{
		Month:        opts.Month,
		Year:         opts.Year,
		Currency:     opts.Currency,
		TotalRevenue: decimal.Zero,
		TotalCost:    decimal.Zero,
		TotalProfit:  decimal.Zero,
		ByCategory:   map[string]domain.CategoryBreakdown{},
		ProductSales: map[string]int{},
		GeneratedAt:  time.Now().In(loc),
	}

	revenueBy := make(map[string]decimal.Decimal)
	costBy := make(map[string]decimal.Decimal)

	for _, t := range transactions {
		if !inPeriod(t.Date.In(loc), opts.Month, opts.Year) {
			continue
		}
		product, known := byID[t.ProductID]
		qty := decimal.NewFromInt(int64(t.Quantity))

		switch t.Type {
		case domain.TransImport:
			if known {
				summary.TotalCost = summary.TotalCost.Add(product.CostPrice.Mul(qty))
			}
		case domain.TransExport:
			summary.ProductSales[t.ProductID] += t.Quantity
			if !known {
				// Quantity recorded above; no catalog entry means no
				// price and no category bucket.
				continue
			}
			revenue := product.SellPrice.Mul(qty)
			cost := product.CostPrice.Mul(qty)
			summary.TotalRevenue = summary.TotalRevenue.Add(revenue)
			summary.TotalCost = summary.TotalCost.Add(cost)
			revenueBy[t.ProductID] = revenueBy[t.ProductID].Add(revenue)
			costBy[t.ProductID] = costBy[t.ProductID].Add(cost)

			category := product.Category
			if category == "" {
				category = domain.UncategorizedBucket
			}
			breakdown := summary.ByCategory[category]
			breakdown.Revenue = breakdown.Revenue.Add(revenue)
			breakdown.Cost = breakdown.Cost.Add(cost)
			breakdown.Profit = breakdown.Revenue.Sub(breakdown.Cost)
			breakdown.Quantity += t.Quantity
			summary.ByCategory[category] = breakdown
		}
	}
	summary.TotalProfit = summary.TotalRevenue.Sub(summary.TotalCost)

	sold := make([]domain.ProductSales, 0, len(summary.ProductSales))
	for id, qty := range summary.ProductSales {
		row := domain.ProductSales{
			ProductID: id,
			Quantity:  qty,
			Revenue:   revenueBy[id],
			Cost:      costBy[id],
		}
		row.Profit = row.Revenue.Sub(row.Cost)
		if p, ok := byID[id]; ok {
			row.Name = p.Name
		}
		sold = append(sold, row)
	}

	top := append([]domain.ProductSales(nil), sold...)
	sort.Slice(top, func(i, j int) bool {
		if top[i].Quantity != top[j].Quantity {
			return top[i].Quantity > top[j].Quantity
		}
		return top[i].ProductID < top[j].ProductID
	})
	summary.TopSellers = truncate(top, opts.topK())

	least := append([]domain.ProductSales(nil), sold...)
	if opts.IncludeZeroSales {
		for _, p := range products {
			if _, hasSales := summary.ProductSales[p.ProductID]; hasSales {
				continue
			}
			least = append(least, domain.ProductSales{ProductID: p.ProductID, Name: p.Name})
		}
	}
	sort.Slice(least, func(i, j int) bool {
		if least[i].Quantity != least[j].Quantity {
			return least[i].Quantity < least[j].Quantity
		}
		return least[i].ProductID < least[j].ProductID
	})
	summary.LeastPurchased = truncate(least, opts.topK())

	return summary, nil
}

func inPeriod(date time.Time, month, year int) bool {
	if year == 0 {
		return true
	}
	if date.Year() != year {
		return false
	}
	return month == 0 || int(date.Month()) == month
}

func truncate(rows []domain.ProductSales, k int) []domain.ProductSales {
	if len(rows) > k {
		rows = rows[:k]
	}
	if rows == nil {
		rows = []domain.ProductSales{}
	}
	return rows
}
