// Package memory provides the volatile in-process stores backing the three
// services. Each store owns its data behind a single lock and is constructed
// at process start; nothing survives the process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ordersvc/fulfillment/internal/domain/order"
)

var _ order.Ledger = (*Ledger)(nil)

// Ledger is the append-only in-memory order store. Identifier assignment and
// slot insertion happen under one mutex, so concurrent appends never share an
// identifier.
type Ledger struct {
	mu       sync.RWMutex
	orders   []order.Order
	byID     map[int64]int
	nextID   int64
	capacity int
}

// NewLedger creates an empty ledger. capacity bounds the number of orders the
// ledger accepts; 0 means unbounded.
func NewLedger(capacity int) *Ledger {
	return &Ledger{
		byID:     make(map[int64]int),
		nextID:   1,
		capacity: capacity,
	}
}

// Append assigns the next identifier and a UTC timestamp, records the order,
// and returns a copy. Returns order.ErrLedgerFull when the capacity bound is
// reached.
func (l *Ledger) Append(ctx context.Context, draft order.Draft) (*order.Order, error) {
	_ = ctx

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.capacity > 0 && len(l.orders) >= l.capacity {
		return nil, order.ErrLedgerFull
	}

	o := order.Order{
		ID:        l.nextID,
		UserID:    draft.UserID,
		ProductID: draft.ProductID,
		Quantity:  draft.Quantity,
		UnitPrice: draft.UnitPrice,
		Total:     draft.Total,
		Status:    order.StatusCreated,
		CreatedAt: time.Now().UTC(),
	}
	l.nextID++

	l.byID[o.ID] = len(l.orders)
	l.orders = append(l.orders, o)

	cp := o
	return &cp, nil
}

// Get returns a copy of the order with the given identifier, or
// order.ErrNotFound.
func (l *Ledger) Get(ctx context.Context, id int64) (*order.Order, error) {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	idx, ok := l.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}

	cp := l.orders[idx]
	return &cp, nil
}

// List returns copies of all orders in insertion order.
func (l *Ledger) List(ctx context.Context) ([]order.Order, error) {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]order.Order, len(l.orders))
	copy(out, l.orders)
	return out, nil
}
