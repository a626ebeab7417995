// internal/search/engine.go
package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/storepulse/storepulse/internal/domain"
)

// Match tiers. A tier dominates any popularity boost, so a substring
// match can never outrank a prefix match.
const (
	scorePrefix    = 300
	scoreSubstring = 200
	scoreFuzzy     = 100
	maxPopularity  = 50
)

const (
	MatchPrefix    = "prefix"
	MatchSubstring = "substring"
	MatchFuzzy     = "fuzzy"
)

// ErrUnknownField is the sentinel for field-restriction errors; match it
// with errors.Is and inspect the concrete *UnknownFieldError for detail.
var ErrUnknownField = errors.New("unknown search field")

// UnknownFieldError reports a field restriction that names no indexed
// attribute.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown search field %q, allowed fields: %s", e.Field, strings.Join(AllowedFields(), ", "))
}

func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// Snapshot is one consistent view of the catalog handed to the engine.
// The service layer assembles it from the store so a single search never
// mixes two catalog versions.
type Snapshot struct {
	Version      int64
	Products     []domain.Product
	Transactions []domain.Transaction
}

// Query is one search request.
type Query struct {
	Keyword  string
	Field    string
	Category string
	Fuzzy    bool
	Page     int
	PageSize int
}

// Options tune the engine at construction time.
type Options struct {
	FuzzyThreshold    int
	PageSize          int
	AutocompleteLimit int
}

// Engine ranks catalog products against keyword queries. It owns the
// lazily invalidated index cache and is not goroutine-safe; callers
// serialize access.
type Engine struct {
	index  *IndexCache
	scorer Scorer
	opts   Options
}

func NewEngine(scorer Scorer, opts Options) *Engine {
	if opts.FuzzyThreshold <= 0 {
		opts.FuzzyThreshold = 70
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.AutocompleteLimit <= 0 {
		opts.AutocompleteLimit = 8
	}
	return &Engine{index: NewIndexCache(), scorer: scorer, opts: opts}
}

// Search runs one ranked query over the snapshot. Total and Facets cover
// the whole matched set; Results holds only the requested page.
func (e *Engine) Search(snap Snapshot, q Query) (domain.SearchPage, error) {
	page := domain.SearchPage{Results: []domain.SearchResult{}, Facets: map[string]int{}}
	kwNorm := Normalize(q.Keyword)
	if kwNorm == "" {
		// A blank keyword short-circuits before any validation.
		return page, nil
	}

	var restrict Field
	if q.Field != "" {
		f := Field(strings.ToLower(strings.TrimSpace(q.Field)))
		if !validField(f) {
			return domain.SearchPage{}, &UnknownFieldError{Field: q.Field}
		}
		restrict = f
	}

	e.index.EnsureFresh(snap.Version, snap.Products)
	kwPlain := StripDiacritics(q.Keyword)
	catFilter := Normalize(q.Category)

	popularity := exportCounts(snap.Transactions)

	var matched []domain.SearchResult
	for _, entry := range e.index.Entries() {
		if catFilter != "" && entry.Fields[FieldCategory].Norm != catFilter {
			continue
		}
		field, matchType, tier := e.matchEntry(entry, kwNorm, kwPlain, q.Fuzzy, restrict)
		if tier == 0 {
			continue
		}
		boost := popularity[entry.Product.ProductID]
		if boost > maxPopularity {
			boost = maxPopularity
		}
		matched = append(matched, domain.SearchResult{
			Product:      entry.Product,
			MatchedField: string(field),
			MatchType:    matchType,
			Score:        tier + boost,
			Status:       entry.Product.StockStatus(),
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Score != matched[j].Score {
			return matched[i].Score > matched[j].Score
		}
		return matched[i].ProductID < matched[j].ProductID
	})

	page.Total = len(matched)
	for _, r := range matched {
		category := r.Category
		if category == "" {
			category = domain.UncategorizedBucket
		}
		page.Facets[category]++
	}

	pageNum, pageSize := q.Page, q.PageSize
	if pageNum <= 0 {
		pageNum = 1
	}
	if pageSize <= 0 {
		pageSize = e.opts.PageSize
	}
	start := (pageNum - 1) * pageSize
	if start < len(matched) {
		end := start + pageSize
		if end > len(matched) {
			end = len(matched)
		}
		page.Results = matched[start:end]
	}
	return page, nil
}

// Autocomplete suggests distinct values of one field whose
// diacritic-stripped form starts with the prefix, in catalog order.
// Distinctness is on the raw value, so two names that differ only by
// accents both appear. An empty field defaults to the product name.
func (e *Engine) Autocomplete(snap Snapshot, field, prefix string, limit int) ([]string, error) {
	f := FieldName
	if field != "" {
		f = Field(strings.ToLower(strings.TrimSpace(field)))
		if !validField(f) {
			return nil, &UnknownFieldError{Field: field}
		}
	}

	e.index.EnsureFresh(snap.Version, snap.Products)

	kwPlain := StripDiacritics(prefix)
	if kwPlain == "" {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = e.opts.AutocompleteLimit
	}

	suggestions := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, entry := range e.index.Entries() {
		if !strings.HasPrefix(entry.Fields[f].Plain, kwPlain) {
			continue
		}
		raw := rawField(entry.Product, f)
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}
		suggestions = append(suggestions, raw)
		if len(suggestions) == limit {
			break
		}
	}
	return suggestions, nil
}

func rawField(p domain.Product, f Field) string {
	switch f {
	case FieldProductID:
		return p.ProductID
	case FieldCategory:
		return p.Category
	default:
		return p.Name
	}
}

// matchEntry walks the fields in order and returns the first field that
// qualifies, so an earlier field's weaker tier still wins over a later
// field's stronger one.
func (e *Engine) matchEntry(entry Entry, kwNorm, kwPlain string, fuzzy bool, restrict Field) (Field, string, int) {
	for _, f := range fieldOrder {
		if restrict != "" && f != restrict {
			continue
		}
		text := entry.Fields[f]
		if text.Norm == "" {
			continue
		}
		switch {
		case strings.HasPrefix(text.Norm, kwNorm) || strings.HasPrefix(text.Plain, kwPlain):
			return f, MatchPrefix, scorePrefix
		case strings.Contains(text.Norm, kwNorm) || strings.Contains(text.Plain, kwPlain):
			return f, MatchSubstring, scoreSubstring
		case fuzzy && (e.scorer.Score(kwNorm, text.Norm) >= e.opts.FuzzyThreshold ||
			e.scorer.Score(kwPlain, text.Plain) >= e.opts.FuzzyThreshold):
			return f, MatchFuzzy, scoreFuzzy
		}
	}
	return "", "", 0
}

func validField(f Field) bool {
	for _, allowed := range fieldOrder {
		if f == allowed {
			return true
		}
	}
	return false
}

// exportCounts tallies outbound transactions per product. The count of
// sale events, not quantities, drives the popularity boost.
func exportCounts(transactions []domain.Transaction) map[string]int {
	counts := make(map[string]int)
	for _, t := range transactions {
		if t.Type == domain.TransExport {
			counts[t.ProductID]++
		}
	}
	return counts
}
