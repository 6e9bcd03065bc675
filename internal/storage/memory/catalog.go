package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ordersvc/fulfillment/internal/domain/product"
)

// CatalogStore is the product catalog service's in-memory store. Reserve
// re-validates stock under the store lock, making it the authoritative
// concurrency-control point for inventory: the advisory stock check may race,
// the reservation cannot.
type CatalogStore struct {
	mu       sync.RWMutex
	products map[int64]product.Product
	nextID   int64
}

// NewCatalogStore creates a store seeded with the demo catalog, including one
// out-of-stock product.
func NewCatalogStore() *CatalogStore {
	s := &CatalogStore{
		products: make(map[int64]product.Product),
		nextID:   1,
	}
	for _, p := range []product.Product{
		{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10},
		{Name: "Mouse", Price: decimal.RequireFromString("29.99"), Stock: 50},
		{Name: "Keyboard", Price: decimal.RequireFromString("79.99"), Stock: 25},
		{Name: "Monitor", Price: decimal.RequireFromString("299.99"), Stock: 0},
	} {
		s.create(p)
	}
	return s
}

func (s *CatalogStore) create(p product.Product) product.Product {
	p.ID = s.nextID
	s.nextID++
	s.products[p.ID] = p
	return p
}

// Create adds a product and assigns its identifier.
func (s *CatalogStore) Create(ctx context.Context, p product.Product) (product.Product, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(p), nil
}

// Get returns the product with the given identifier, or product.ErrNotFound.
func (s *CatalogStore) Get(ctx context.Context, id int64) (*product.Product, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

// List returns all products ordered by identifier.
func (s *CatalogStore) List(ctx context.Context) ([]product.Product, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]product.Product, 0, len(s.products))
	for id := int64(1); id < s.nextID; id++ {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// CheckStock reports whether the product has at least the requested quantity
// on hand. Unknown products are reported as unavailable with a not-found
// error so the handler can distinguish them.
func (s *CatalogStore) CheckStock(ctx context.Context, id int64, quantity int) (*product.StockResult, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &product.StockResult{
		Available: p.Stock >= quantity,
		Stock:     p.Stock,
	}, nil
}

// Reserve decrements stock if and only if enough is on hand, atomically under
// the store lock. An insufficient-stock rejection carries the current stock
// in the result; it is not an error.
func (s *CatalogStore) Reserve(ctx context.Context, id int64, quantity int) (*product.ReservationResult, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	if p.Stock < quantity {
		return &product.ReservationResult{
			Reserved:       false,
			RemainingStock: p.Stock,
			Reason:         "Insufficient stock",
		}, nil
	}

	p.Stock -= quantity
	s.products[id] = p
	return &product.ReservationResult{
		Reserved:       true,
		RemainingStock: p.Stock,
	}, nil
}

// Release returns previously reserved units to stock. It compensates a
// reservation whose order never committed.
func (s *CatalogStore) Release(ctx context.Context, id int64, quantity int) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return product.ErrNotFound
	}

	p.Stock += quantity
	s.products[id] = p
	return nil
}
