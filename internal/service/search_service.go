package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/storepulse/storepulse/internal/cache"
	"github.com/storepulse/storepulse/internal/catalog"
	"github.com/storepulse/storepulse/internal/domain"
	"github.com/storepulse/storepulse/internal/search"
)

// SearchService fronts the search engine for concurrent callers. The
// engine and its index cache are single-threaded, so every engine call
// runs under the service mutex; cache hits skip the lock entirely.
type SearchService struct {
	store  catalog.Store
	engine *search.Engine
	cache  cache.SearchCache

	mu sync.Mutex
}

func NewSearchService(store catalog.Store, engine *search.Engine, searchCache cache.SearchCache) *SearchService {
	if searchCache == nil {
		searchCache = cache.NewNoopSearchCache()
	}
	return &SearchService{store: store, engine: engine, cache: searchCache}
}

// Search runs one ranked catalog query.
func (s *SearchService) Search(ctx context.Context, q search.Query) (domain.SearchPage, error) {
	version, err := s.store.Version(ctx)
	if err != nil {
		return domain.SearchPage{}, fmt.Errorf("failed to read catalog version: %w", err)
	}

	if page, hit, err := s.cache.GetSearch(ctx, version, q); err != nil {
		log.Warn().Err(err).Msg("search cache read failed")
	} else if hit {
		return page, nil
	}

	snap, err := s.snapshot(ctx, version)
	if err != nil {
		return domain.SearchPage{}, err
	}

	s.mu.Lock()
	page, err := s.engine.Search(snap, q)
	s.mu.Unlock()
	if err != nil {
		return domain.SearchPage{}, err
	}

	if err := s.cache.SetSearch(ctx, version, q, page); err != nil {
		log.Warn().Err(err).Msg("search cache write failed")
	}
	return page, nil
}

// Autocomplete suggests distinct field values for a prefix.
func (s *SearchService) Autocomplete(ctx context.Context, field, prefix string, limit int) ([]string, error) {
	version, err := s.store.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog version: %w", err)
	}

	if suggestions, hit, err := s.cache.GetAutocomplete(ctx, version, field, prefix, limit); err != nil {
		log.Warn().Err(err).Msg("autocomplete cache read failed")
	} else if hit {
		return suggestions, nil
	}

	snap, err := s.snapshot(ctx, version)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	suggestions, err := s.engine.Autocomplete(snap, field, prefix, limit)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetAutocomplete(ctx, version, field, prefix, limit, suggestions); err != nil {
		log.Warn().Err(err).Msg("autocomplete cache write failed")
	}
	return suggestions, nil
}

func (s *SearchService) snapshot(ctx context.Context, version int64) (search.Snapshot, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return search.Snapshot{}, fmt.Errorf("failed to load products: %w", err)
	}
	transactions, err := s.store.Transactions(ctx)
	if err != nil {
		return search.Snapshot{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	return search.Snapshot{Version: version, Products: products, Transactions: transactions}, nil
}
