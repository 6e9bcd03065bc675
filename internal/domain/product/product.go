package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for ordering.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Stock int
}

// StockResult is the catalog's answer to a stock query. It is advisory only:
// a positive result does not hold any stock, and the authoritative check
// happens inside Reserve.
type StockResult struct {
	Available bool
	Stock     int
}

// ReservationResult is the outcome of a reservation attempt. Reserved=false
// with a reason is a normal business result; transport failures surface as
// errors from Inventory implementations.
type ReservationResult struct {
	Reserved       bool
	RemainingStock int
	Reason         string
}

// Inventory is the contract against the remote product catalog service.
// Reserve is the single mutating call in the order flow; Release is its
// best-effort compensation.
type Inventory interface {
	GetProduct(ctx context.Context, productID int64) (*Product, error)
	CheckStock(ctx context.Context, productID int64) (*StockResult, error)
	Reserve(ctx context.Context, productID int64, quantity int) (*ReservationResult, error)
	Release(ctx context.Context, productID int64, quantity int) error
}
