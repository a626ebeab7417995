package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storepulse/storepulse/internal/cache"
	"github.com/storepulse/storepulse/internal/catalog"
	"github.com/storepulse/storepulse/internal/domain"
	"github.com/storepulse/storepulse/internal/search"
	"github.com/storepulse/storepulse/internal/service"
)

func newSearchRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := catalog.NewMemoryStore()
	store.SetProducts([]domain.Product{
		{ProductID: "P001", Name: "Sữa tươi Vinamilk", Category: "Dairy", CostPrice: decimal.NewFromInt(20000), SellPrice: decimal.NewFromInt(30000), StockQuantity: 10, MinThreshold: 5},
		{ProductID: "P002", Name: "Trà xanh", Category: "Beverage", CostPrice: decimal.NewFromInt(8000), SellPrice: decimal.NewFromInt(12000), StockQuantity: 0, MinThreshold: 10},
	})

	engine := search.NewEngine(search.NewScorer(search.ScorerPartialRatio), search.Options{})
	svc := service.NewSearchService(store, engine, cache.NewNoopSearchCache())
	handler := NewSearchHandler(svc)

	router := gin.New()
	router.GET("/api/v1/search", handler.Search)
	router.GET("/api/v1/search/autocomplete", handler.Autocomplete)
	return router
}

func TestSearchEndpoint(t *testing.T) {
	router := newSearchRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=s%E1%BB%AFa", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var page domain.SearchPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "P001", page.Results[0].ProductID)
	assert.Equal(t, 300, page.Results[0].Score)
	assert.Equal(t, domain.StockNormal, page.Results[0].Status)
	assert.Equal(t, map[string]int{"Dairy": 1}, page.Facets)
}

func TestSearchEndpointUnknownField(t *testing.T) {
	router := newSearchRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=milk&field=price", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "unknown search field")
}

func TestSearchEndpointEmptyKeyword(t *testing.T) {
	router := newSearchRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var page domain.SearchPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Results)
}

func TestAutocompleteEndpoint(t *testing.T) {
	router := newSearchRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/autocomplete?q=tra", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"Trà xanh"}, body["suggestions"])
}
