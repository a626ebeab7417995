// internal/search/index.go
package search

import (
	"github.com/rs/zerolog/log"

	"github.com/storepulse/storepulse/internal/domain"
)

// Field names a searchable product attribute. Matching walks fields in
// fieldOrder and stops at the first field that qualifies.
type Field string

const (
	FieldProductID Field = "product_id"
	FieldName      Field = "name"
	FieldCategory  Field = "category"
)

var fieldOrder = []Field{FieldProductID, FieldName, FieldCategory}

// AllowedFields lists the valid values for a field-restricted query.
func AllowedFields() []string {
	names := make([]string, len(fieldOrder))
	for i, f := range fieldOrder {
		names[i] = string(f)
	}
	return names
}

// fieldText holds the two comparable forms of one field value: the
// normalized form and the diacritic-stripped form. Both are precomputed
// at index build time so queries never re-normalize catalog text.
type fieldText struct {
	Norm  string
	Plain string
}

// Entry is one indexed product.
type Entry struct {
	Product domain.Product
	Fields  map[Field]fieldText
}

func newEntry(p domain.Product) Entry {
	e := Entry{Product: p, Fields: make(map[Field]fieldText, len(fieldOrder))}
	for _, f := range fieldOrder {
		var raw string
		switch f {
		case FieldProductID:
			raw = p.ProductID
		case FieldName:
			raw = p.Name
		case FieldCategory:
			raw = p.Category
		}
		e.Fields[f] = fieldText{Norm: Normalize(raw), Plain: StripDiacritics(raw)}
	}
	return e
}

// IndexCache is the lazily rebuilt search view of the catalog. It keeps
// the catalog version it was built from and rebuilds only when a caller
// presents a newer one. The cache itself is not goroutine-safe; callers
// that share it across requests serialize access.
type IndexCache struct {
	entries []Entry
	version int64
	built   bool
}

func NewIndexCache() *IndexCache {
	return &IndexCache{}
}

// EnsureFresh rebuilds the index when the catalog version moved (or on
// first use) and is a no-op otherwise. Products are only read during a
// rebuild, so a stale-version call never touches the slice.
func (c *IndexCache) EnsureFresh(version int64, products []domain.Product) {
	if c.built && c.version == version {
		return
	}
	entries := make([]Entry, 0, len(products))
	for _, p := range products {
		entries = append(entries, newEntry(p))
	}
	c.entries = entries
	c.version = version
	c.built = true
	log.Debug().Int64("version", version).Int("products", len(entries)).Msg("search index rebuilt")
}

// Entries returns the indexed view. Callers must have called EnsureFresh
// first; an unbuilt cache returns nil.
func (c *IndexCache) Entries() []Entry {
	return c.entries
}

// Version reports the catalog version the current index was built from.
func (c *IndexCache) Version() int64 {
	return c.version
}
