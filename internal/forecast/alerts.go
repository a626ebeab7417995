// internal/forecast/alerts.go
package forecast

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/storepulse/storepulse/internal/domain"
)

// AlertConfig tunes the stock-alert pass. ReorderBuffer pads the needed
// quantity above the threshold gap; SuggestOrders attaches advisor
// output to each alert.
type AlertConfig struct {
	ReorderBuffer   int
	LookbackDays    int
	LeadTimeDays    int
	PredictSoonDays int
	SuggestOrders   bool
	Now             time.Time
	Location        *time.Location
}

func (c AlertConfig) predictSoon() int {
	if c.PredictSoonDays <= 0 {
		return 7
	}
	return c.PredictSoonDays
}

// GenerateAlerts scans the catalog for products at or below threshold
// and enriches each alert with demand forecasts where sales history
// exists. Alerts within each bucket are ordered by product identifier.
func GenerateAlerts(products []domain.Product, transactions []domain.Transaction, cfg AlertConfig) domain.AlertReport {
	estimator := EstimatorConfig{LookbackDays: cfg.LookbackDays, Now: cfg.Now, Location: cfg.Location}
	rates := SaleRates(transactions, estimator)
	advisor := AdvisorConfig{LeadTimeDays: cfg.LeadTimeDays}

	report := domain.AlertReport{
		GeneratedAt: estimator.anchor(),
		OutOfStock:  []domain.Alert{},
		LowStock:    []domain.Alert{},
		ByCategory:  map[string]domain.CategoryAlertCount{},
	}

	sorted := append([]domain.Product(nil), products...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	for _, p := range sorted {
		status := p.StockStatus()
		if status == domain.StockNormal {
			continue
		}

		alert := domain.Alert{
			ProductID:     p.ProductID,
			Name:          p.Name,
			Category:      p.Category,
			StockQuantity: p.StockQuantity,
			MinThreshold:  p.MinThreshold,
			Unit:          p.Unit,
			Status:        status,
		}
		if gap := p.MinThreshold - p.StockQuantity; gap > 0 {
			alert.Needed = gap
			if cfg.ReorderBuffer > 0 {
				alert.Needed += cfg.ReorderBuffer
			}
		}

		rate, hasHistory := rates[p.ProductID]
		if hasHistory && rate > 0 {
			r := rate
			alert.DailySaleRate = &r
			days := round2(float64(p.StockQuantity) / rate)
			alert.DaysUntilStockout = &days
			soon := days <= float64(cfg.predictSoon())
			alert.PredictedOutSoon = &soon
		}
		if cfg.SuggestOrders {
			suggestion := SuggestOrder(p, rate, hasHistory, advisor)
			alert.SuggestedOrder = &suggestion.SuggestedOrder
		}

		category := p.Category
		if category == "" {
			category = domain.UncategorizedBucket
		}
		counts := report.ByCategory[category]
		switch status {
		case domain.StockOut:
			counts.OutOfStock++
			report.OutOfStock = append(report.OutOfStock, alert)
		case domain.StockLow:
			counts.LowStock++
			report.LowStock = append(report.LowStock, alert)
		}
		report.ByCategory[category] = counts
		report.TotalNeeded += alert.Needed
	}

	log.Debug().
		Int("out_of_stock", len(report.OutOfStock)).
		Int("low_stock", len(report.LowStock)).
		Int("total_needed", report.TotalNeeded).
		Msg("stock alerts generated")
	return report
}
