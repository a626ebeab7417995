// internal/catalog/catalog.go
package catalog

import (
	"context"

	"github.com/storepulse/storepulse/internal/domain"
)

// ProductCatalog exposes the current product snapshot. Version increases
// monotonically on any add/update/delete; the search index uses it to
// decide whether its cached view is stale.
type ProductCatalog interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Version(ctx context.Context) (int64, error)
}

// TransactionLedger exposes the transaction history, read-only.
type TransactionLedger interface {
	Transactions(ctx context.Context) ([]domain.Transaction, error)
}

// Store combines both collaborator surfaces.
type Store interface {
	ProductCatalog
	TransactionLedger
}
