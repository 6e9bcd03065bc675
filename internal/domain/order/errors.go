package order

import "fmt"

// Dependency names used in DependencyError.
const (
	DependencyDirectory = "directory"
	DependencyInventory = "inventory"
)

// Stable reason discriminators, one per failure kind. Callers and tests match
// on these rather than parsing error text.
const (
	ReasonInvalidRequest        = "invalid_request"
	ReasonUserInvalid           = "user_invalid"
	ReasonDependencyUnavailable = "dependency_unavailable"
	ReasonInsufficientStock     = "insufficient_stock"
	ReasonReservationFailed     = "reservation_failed"
	ReasonLedgerWriteFailed     = "ledger_write_failed"
)

// InvalidRequestError indicates a structurally malformed request, rejected
// before any remote call.
type InvalidRequestError struct {
	Field string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s must be a positive integer", e.Field)
}

// Reason returns the stable discriminator for this error kind.
func (e *InvalidRequestError) Reason() string { return ReasonInvalidRequest }

// UserInvalidError indicates the directory rejected the user (unknown or
// inactive). No inventory calls were made.
type UserInvalidError struct {
	UserID int64
	Detail string
}

func (e *UserInvalidError) Error() string {
	return fmt.Sprintf("user %d invalid: %s", e.UserID, e.Detail)
}

func (e *UserInvalidError) Reason() string { return ReasonUserInvalid }

// DependencyError indicates a transport-level failure of a named remote
// collaborator.
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

func (e *DependencyError) Reason() string { return ReasonDependencyUnavailable }

// InsufficientStockError indicates a known shortage. No reservation was
// attempted.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Stock     int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Stock)
}

func (e *InsufficientStockError) Reason() string { return ReasonInsufficientStock }

// ReservationFailedError indicates the catalog rejected the reservation at
// commit time. Stock was not decremented, so no compensation is required.
type ReservationFailedError struct {
	ProductID int64
	Quantity  int
	Detail    string
}

func (e *ReservationFailedError) Error() string {
	return fmt.Sprintf("reservation of %d units of product %d failed: %s",
		e.Quantity, e.ProductID, e.Detail)
}

func (e *ReservationFailedError) Reason() string { return ReasonReservationFailed }

// LedgerWriteError indicates the ledger append failed after a successful
// reservation. The orchestrator has already issued the compensating release
// by the time this error is returned.
type LedgerWriteError struct {
	Err error
}

func (e *LedgerWriteError) Error() string {
	return fmt.Sprintf("ledger write failed: %v", e.Err)
}

func (e *LedgerWriteError) Unwrap() error { return e.Err }

func (e *LedgerWriteError) Reason() string { return ReasonLedgerWriteFailed }
