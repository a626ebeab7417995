// internal/forecast/rates.go
package forecast

import (
	"math"
	"time"

	"github.com/storepulse/storepulse/internal/domain"
)

// EstimatorConfig anchors the demand window. Now defaults to the wall
// clock in Location; tests and replayed reports pin it explicitly.
// ProductIDs, when set, restricts estimation to those products.
type EstimatorConfig struct {
	LookbackDays int
	Now          time.Time
	Location     *time.Location
	ProductIDs   []string
}

func (c EstimatorConfig) anchor() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	if c.Now.IsZero() {
		return time.Now().In(loc)
	}
	return c.Now.In(loc)
}

func (c EstimatorConfig) lookback() int {
	if c.LookbackDays <= 0 {
		return 30
	}
	return c.LookbackDays
}

// SaleRates estimates average daily demand per product from outbound
// transactions in the window [now-lookback, now]. Quantities are summed
// and divided by the lookback length, so a product sold on a single day
// still spreads across the whole window. Products with no sales in the
// window get no entry. Rates carry two decimal places.
func SaleRates(transactions []domain.Transaction, cfg EstimatorConfig) map[string]float64 {
	now := cfg.anchor()
	days := cfg.lookback()
	cutoff := now.AddDate(0, 0, -days)

	var wanted map[string]struct{}
	if len(cfg.ProductIDs) > 0 {
		wanted = make(map[string]struct{}, len(cfg.ProductIDs))
		for _, id := range cfg.ProductIDs {
			wanted[id] = struct{}{}
		}
	}

	sold := make(map[string]int)
	for _, t := range transactions {
		if t.Type != domain.TransExport {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[t.ProductID]; !ok {
				continue
			}
		}
		if t.Date.Before(cutoff) || t.Date.After(now) {
			continue
		}
		sold[t.ProductID] += t.Quantity
	}

	rates := make(map[string]float64, len(sold))
	for id, qty := range sold {
		rates[id] = round2(float64(qty) / float64(days))
	}
	return rates
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
