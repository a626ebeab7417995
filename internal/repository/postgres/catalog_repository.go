package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/storepulse/storepulse/internal/catalog"
	"github.com/storepulse/storepulse/internal/domain"
)

// CatalogRepository serves catalog snapshots from Postgres. The version
// row in catalog_meta is bumped inside every mutating transaction, so
// readers always observe a version at least as new as the data they see.
type CatalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	query := `
		SELECT product_id, name, category, cost_price, sell_price, stock_quantity, min_threshold, unit
		FROM products
		ORDER BY product_id`
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("could not select products: %w", err)
	}
	return products, nil
}

func (r *CatalogRepository) Version(ctx context.Context) (int64, error) {
	var version int64
	if err := r.db.GetContext(ctx, &version, `SELECT version FROM catalog_meta LIMIT 1`); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("could not read catalog version: %w", err)
	}
	return version, nil
}

func (r *CatalogRepository) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	query := `
		SELECT transaction_id, product_id, trans_type, quantity, date, note
		FROM transactions
		ORDER BY date`
	if err := r.db.SelectContext(ctx, &transactions, query); err != nil {
		return nil, fmt.Errorf("could not select transactions: %w", err)
	}
	return transactions, nil
}

// UpsertProduct inserts or replaces one product and bumps the catalog
// version in the same transaction.
func (r *CatalogRepository) UpsertProduct(ctx context.Context, p domain.Product) error {
	if p.ProductID == "" {
		return fmt.Errorf("product_id must not be empty")
	}
	if p.SellPrice.LessThan(p.CostPrice) {
		return fmt.Errorf("sell price must be >= cost price for %s", p.ProductID)
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO products (product_id, name, category, cost_price, sell_price, stock_quantity, min_threshold, unit)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (product_id) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				cost_price = EXCLUDED.cost_price,
				sell_price = EXCLUDED.sell_price,
				stock_quantity = EXCLUDED.stock_quantity,
				min_threshold = EXCLUDED.min_threshold,
				unit = EXCLUDED.unit`
		if _, err := tx.ExecContext(ctx, query,
			p.ProductID, p.Name, p.Category, p.CostPrice, p.SellPrice, p.StockQuantity, p.MinThreshold, p.Unit); err != nil {
			return fmt.Errorf("could not upsert product: %w", err)
		}
		return bumpVersion(ctx, tx)
	})
}

// RemoveProduct deletes a product and bumps the catalog version.
func (r *CatalogRepository) RemoveProduct(ctx context.Context, productID string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("could not delete product: %w", err)
		}
		return bumpVersion(ctx, tx)
	})
}

// AppendTransaction records one ledger entry. The ledger does not bump
// the catalog version; only product changes invalidate the search index.
func (r *CatalogRepository) AppendTransaction(ctx context.Context, t domain.Transaction) error {
	if t.Quantity <= 0 {
		return fmt.Errorf("transaction quantity must be > 0")
	}
	if t.Type != domain.TransImport && t.Type != domain.TransExport {
		return fmt.Errorf("transaction type must be IMPORT or EXPORT, got %q", t.Type)
	}

	query := `
		INSERT INTO transactions (transaction_id, product_id, trans_type, quantity, date, note)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		t.TransactionID, t.ProductID, t.Type, t.Quantity, t.Date, t.Note); err != nil {
		return fmt.Errorf("could not insert transaction: %w", err)
	}
	return nil
}

func bumpVersion(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `UPDATE catalog_meta SET version = version + 1`); err != nil {
		return fmt.Errorf("could not bump catalog version: %w", err)
	}
	return nil
}

var _ catalog.Store = (*CatalogRepository)(nil)
