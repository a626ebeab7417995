// internal/forecast/advisor.go
package forecast

import (
	"math"

	"github.com/storepulse/storepulse/internal/domain"
)

// safetyFactor is the fraction of lead-time demand held as buffer stock.
const safetyFactor = 0.2

// AdvisorConfig tunes replenishment suggestions.
type AdvisorConfig struct {
	LeadTimeDays int
}

func (c AdvisorConfig) leadTime() int {
	if c.LeadTimeDays <= 0 {
		return 7
	}
	return c.LeadTimeDays
}

// Suggestion explains one replenishment recommendation.
type Suggestion struct {
	ProductID      string  `json:"product_id"`
	DailySaleRate  float64 `json:"daily_sale_rate"`
	SafetyStock    int     `json:"safety_stock"`
	ReorderPoint   int     `json:"reorder_point"`
	SuggestedOrder int     `json:"suggested_order"`
	HasHistory     bool    `json:"has_history"`
}

// SuggestOrder computes the replenishment quantity for one product.
// With sales history: safety stock is at least one unit, the reorder
// point covers lead-time demand plus safety, and the suggestion tops
// stock up to the reorder point. Without history it falls back to
// refilling the threshold gap.
func SuggestOrder(p domain.Product, rate float64, hasHistory bool, cfg AdvisorConfig) Suggestion {
	s := Suggestion{ProductID: p.ProductID, DailySaleRate: rate, HasHistory: hasHistory}
	if !hasHistory || rate <= 0 {
		if gap := p.MinThreshold - p.StockQuantity; gap > 0 {
			s.SuggestedOrder = gap
		}
		return s
	}

	lead := float64(cfg.leadTime())
	s.SafetyStock = int(math.Floor(safetyFactor * rate * lead))
	if s.SafetyStock < 1 {
		s.SafetyStock = 1
	}
	s.ReorderPoint = int(math.Floor(rate*lead)) + s.SafetyStock
	if order := s.ReorderPoint - p.StockQuantity; order > 0 {
		s.SuggestedOrder = order
	}
	return s
}
