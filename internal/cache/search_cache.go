package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/domain"
	"github.com/storepulse/storepulse/internal/search"
)

const (
	searchResultsKeyPrefix = "search:results"
	autocompleteKeyPrefix  = "search:autocomplete"
	searchScanBatchSize    = 100
)

// SearchCache memoizes ranked search pages and autocomplete suggestions.
// Keys embed the catalog version, so entries written against an older
// catalog are never served after a product mutation; they simply expire.
// Popularity boosts come from the transaction ledger, which does not
// bump the version, so a new sale shows up in cached scores only after
// the TTL.
type SearchCache interface {
	GetSearch(ctx context.Context, version int64, q search.Query) (domain.SearchPage, bool, error)
	SetSearch(ctx context.Context, version int64, q search.Query, page domain.SearchPage) error
	GetAutocomplete(ctx context.Context, version int64, field, prefix string, limit int) ([]string, bool, error)
	SetAutocomplete(ctx context.Context, version int64, field, prefix string, limit int, suggestions []string) error
	InvalidateAll(ctx context.Context) error
}

type redisSearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSearchCache struct{}

func NewSearchCache(cfg config.CacheConfig) (SearchCache, error) {
	if !cfg.Enabled {
		return &noopSearchCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSearchCache{client: client, ttl: ttl}, nil
}

func NewNoopSearchCache() SearchCache {
	return &noopSearchCache{}
}

func (c *redisSearchCache) GetSearch(ctx context.Context, version int64, q search.Query) (domain.SearchPage, bool, error) {
	key := buildSearchKey(version, q)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return domain.SearchPage{}, false, nil
	}
	if err != nil {
		return domain.SearchPage{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var page domain.SearchPage
	if err := json.Unmarshal(payload, &page); err != nil {
		return domain.SearchPage{}, false, fmt.Errorf("decode search page cache: %w", err)
	}
	return page, true, nil
}

func (c *redisSearchCache) SetSearch(ctx context.Context, version int64, q search.Query, page domain.SearchPage) error {
	payload, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode search page cache: %w", err)
	}
	if err := c.client.Set(ctx, buildSearchKey(version, q), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSearchCache) GetAutocomplete(ctx context.Context, version int64, field, prefix string, limit int) ([]string, bool, error) {
	key := buildAutocompleteKey(version, field, prefix, limit)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var suggestions []string
	if err := json.Unmarshal(payload, &suggestions); err != nil {
		return nil, false, fmt.Errorf("decode autocomplete cache: %w", err)
	}
	return suggestions, true, nil
}

func (c *redisSearchCache) SetAutocomplete(ctx context.Context, version int64, field, prefix string, limit int, suggestions []string) error {
	payload, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("encode autocomplete cache: %w", err)
	}
	key := buildAutocompleteKey(version, field, prefix, limit)
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSearchCache) InvalidateAll(ctx context.Context) error {
	if err := deleteKeysWithPrefix(ctx, c.client, searchResultsKeyPrefix, searchScanBatchSize); err != nil {
		return err
	}
	return deleteKeysWithPrefix(ctx, c.client, autocompleteKeyPrefix, searchScanBatchSize)
}

func (n *noopSearchCache) GetSearch(ctx context.Context, version int64, q search.Query) (domain.SearchPage, bool, error) {
	return domain.SearchPage{}, false, nil
}

func (n *noopSearchCache) SetSearch(ctx context.Context, version int64, q search.Query, page domain.SearchPage) error {
	return nil
}

func (n *noopSearchCache) GetAutocomplete(ctx context.Context, version int64, field, prefix string, limit int) ([]string, bool, error) {
	return nil, false, nil
}

func (n *noopSearchCache) SetAutocomplete(ctx context.Context, version int64, field, prefix string, limit int, suggestions []string) error {
	return nil
}

func (n *noopSearchCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildSearchKey(version int64, q search.Query) string {
	return fmt.Sprintf("%s:%d:%s", searchResultsKeyPrefix, version, queryHash(q))
}

func buildAutocompleteKey(version int64, field, prefix string, limit int) string {
	raw := fmt.Sprintf("field=%s|prefix=%s|limit=%d",
		strings.ToLower(strings.TrimSpace(field)), search.StripDiacritics(prefix), limit)
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%d:%s", autocompleteKeyPrefix, version, hex.EncodeToString(sum[:]))
}

func queryHash(q search.Query) string {
	parts := []string{
		"keyword=" + search.Normalize(q.Keyword),
	}
	if q.Field != "" {
		parts = append(parts, "field="+strings.ToLower(strings.TrimSpace(q.Field)))
	}
	if q.Category != "" {
		parts = append(parts, "category="+search.Normalize(q.Category))
	}
	if q.Fuzzy {
		parts = append(parts, "fuzzy=1")
	}
	parts = append(parts, fmt.Sprintf("page=%d", q.Page), fmt.Sprintf("page_size=%d", q.PageSize))

	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
