// internal/catalog/memory.go
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/storepulse/storepulse/internal/domain"
)

// MemoryStore is an in-memory Store. Writes are serialized by its mutex;
// the version counter is bumped on every catalog mutation so index
// consumers can detect staleness.
type MemoryStore struct {
	mu           sync.RWMutex
	products     []domain.Product
	transactions []domain.Transaction
	version      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SetProducts replaces the whole catalog snapshot.
func (s *MemoryStore) SetProducts(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]domain.Product(nil), products...)
	s.version++
}

// UpsertProduct inserts or replaces one product by identifier.
func (s *MemoryStore) UpsertProduct(p domain.Product) error {
	if p.ProductID == "" {
		return fmt.Errorf("product_id must not be empty")
	}
	if p.SellPrice.LessThan(p.CostPrice) {
		return fmt.Errorf("sell price must be >= cost price for %s", p.ProductID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ProductID == p.ProductID {
			s.products[i] = p
			s.version++
			return nil
		}
	}
	s.products = append(s.products, p)
	s.version++
	return nil
}

// RemoveProduct deletes a product; missing identifiers are a no-op.
func (s *MemoryStore) RemoveProduct(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ProductID == productID {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.version++
			return
		}
	}
}

// SetTransactions replaces the ledger. The ledger is not versioned; only
// catalog changes invalidate the search index.
func (s *MemoryStore) SetTransactions(transactions []domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append([]domain.Transaction(nil), transactions...)
}

// AppendTransaction records one ledger entry.
func (s *MemoryStore) AppendTransaction(t domain.Transaction) error {
	if t.Quantity <= 0 {
		return fmt.Errorf("transaction quantity must be > 0")
	}
	if t.Type != domain.TransImport && t.Type != domain.TransExport {
		return fmt.Errorf("transaction type must be IMPORT or EXPORT, got %q", t.Type)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, t)
	return nil
}

func (s *MemoryStore) Products(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...), nil
}

func (s *MemoryStore) Version(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version, nil
}

func (s *MemoryStore) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Transaction(nil), s.transactions...), nil
}

var _ Store = (*MemoryStore)(nil)
