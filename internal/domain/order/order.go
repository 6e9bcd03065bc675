package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Ledger errors.
var (
	// ErrNotFound is returned by Get for unknown order identifiers.
	ErrNotFound = errors.New("order not found")
	// ErrLedgerFull is returned by Append when the ledger's capacity bound
	// has been reached.
	ErrLedgerFull = errors.New("ledger is full")
)

// Status is the lifecycle state of an order. Orders have no lifecycle beyond
// creation in this system.
type Status string

// StatusCreated is the only order status.
const StatusCreated Status = "CREATED"

// Order is a durably recorded order. It is owned by the Ledger after Append
// and never mutated; the ledger hands out copies.
type Order struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	Status    Status
	CreatedAt time.Time
}

// Draft holds the fields of an order before the ledger assigns an identifier
// and timestamp. Total is computed once, from the unit price captured during
// the stock check.
type Draft struct {
	UserID    int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// NewDraft builds a Draft, computing the order total from the captured unit
// price.
func NewDraft(userID, productID int64, quantity int, unitPrice decimal.Decimal) Draft {
	return Draft{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// Ledger is the append-only order store. Append assigns the identifier and
// creation timestamp atomically; no two concurrent appends observe the same
// identifier.
type Ledger interface {
	Append(ctx context.Context, draft Draft) (*Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]Order, error)
}
