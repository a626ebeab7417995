package service

import (
	"context"
	"fmt"
	"time"

	"github.com/storepulse/storepulse/internal/catalog"
	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/domain"
	"github.com/storepulse/storepulse/internal/forecast"
)

// AlertService builds stock-alert reports from the current catalog and
// ledger.
type AlertService struct {
	store    catalog.Store
	forecast config.ForecastConfig
	loc      *time.Location
}

func NewAlertService(store catalog.Store, forecastCfg config.ForecastConfig, loc *time.Location) *AlertService {
	if loc == nil {
		loc = time.Local
	}
	return &AlertService{store: store, forecast: forecastCfg, loc: loc}
}

// AlertParams are the per-request knobs; zero values fall back to the
// configured defaults.
type AlertParams struct {
	ReorderBuffer int
	LookbackDays  int
	SuggestOrders bool
	Now           time.Time
}

func (s *AlertService) GenerateAlerts(ctx context.Context, params AlertParams) (domain.AlertReport, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return domain.AlertReport{}, fmt.Errorf("failed to load products: %w", err)
	}
	transactions, err := s.store.Transactions(ctx)
	if err != nil {
		return domain.AlertReport{}, fmt.Errorf("failed to load transactions: %w", err)
	}

	lookback := params.LookbackDays
	if lookback <= 0 {
		lookback = s.forecast.LookbackDays
	}

	return forecast.GenerateAlerts(products, transactions, forecast.AlertConfig{
		ReorderBuffer:   params.ReorderBuffer,
		LookbackDays:    lookback,
		LeadTimeDays:    s.forecast.LeadTimeDays,
		PredictSoonDays: s.forecast.PredictSoonDays,
		SuggestOrders:   params.SuggestOrders,
		Now:             params.Now,
		Location:        s.loc,
	}), nil
}
