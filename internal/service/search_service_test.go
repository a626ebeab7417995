package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storepulse/storepulse/internal/cache"
	"github.com/storepulse/storepulse/internal/catalog"
	"github.com/storepulse/storepulse/internal/domain"
	"github.com/storepulse/storepulse/internal/search"
)

func newSearchFixture() (*SearchService, *catalog.MemoryStore) {
	store := catalog.NewMemoryStore()
	store.SetProducts([]domain.Product{
		{ProductID: "P001", Name: "Sữa tươi", Category: "Dairy", CostPrice: decimal.NewFromInt(20000), SellPrice: decimal.NewFromInt(30000), StockQuantity: 10, MinThreshold: 5},
	})

	engine := search.NewEngine(search.NewScorer(search.ScorerPartialRatio), search.Options{})
	return NewSearchService(store, engine, cache.NewNoopSearchCache()), store
}

func TestSearchServicePicksUpCatalogMutations(t *testing.T) {
	ctx := context.Background()
	svc, store := newSearchFixture()

	page, err := svc.Search(ctx, search.Query{Keyword: "sữa"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	require.NoError(t, store.UpsertProduct(domain.Product{
		ProductID: "P002",
		Name:      "Sữa chua",
		Category:  "Dairy",
		CostPrice: decimal.NewFromInt(5000),
		SellPrice: decimal.NewFromInt(8000),
	}))

	// The version bump forces an index rebuild on the next query.
	page, err = svc.Search(ctx, search.Query{Keyword: "sữa"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	store.RemoveProduct("P001")
	page, err = svc.Search(ctx, search.Query{Keyword: "sữa"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "P002", page.Results[0].ProductID)
}

func TestSearchServiceAutocomplete(t *testing.T) {
	ctx := context.Background()
	svc, store := newSearchFixture()

	suggestions, err := svc.Autocomplete(ctx, "name", "sua", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sữa tươi"}, suggestions)

	require.NoError(t, store.UpsertProduct(domain.Product{
		ProductID: "P002",
		Name:      "Sữa chua",
		CostPrice: decimal.NewFromInt(5000),
		SellPrice: decimal.NewFromInt(8000),
	}))

	suggestions, err = svc.Autocomplete(ctx, "name", "sua", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sữa tươi", "Sữa chua"}, suggestions)
}
