package order

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ordersvc/fulfillment/internal/domain/product"
	"github.com/ordersvc/fulfillment/internal/domain/user"
)

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	UserID    int64
	ProductID int64
	Quantity  int
}

// Service orchestrates order placement: it validates the user against the
// remote directory, checks and reserves remote inventory, and appends the
// order to the ledger. The reservation is the prepare phase and the ledger
// append the commit phase of a logical two-phase commit; a failed commit
// triggers a compensating release of the reservation.
type Service struct {
	directory user.Directory
	inventory product.Inventory
	ledger    Ledger
	tracer    trace.Tracer
}

// NewService creates an order Service with the required collaborators.
func NewService(directory user.Directory, inventory product.Inventory, ledger Ledger) *Service {
	return &Service{
		directory: directory,
		inventory: inventory,
		ledger:    ledger,
		tracer:    otel.Tracer("orderservice/orchestrator"),
	}
}

// PlaceOrder runs the orchestration sequence. Each step gates the next; no
// step is retried here. Errors are typed per kind (see errors.go) so callers
// can discriminate the failure cause.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "PlaceOrder", trace.WithAttributes(
		attribute.Int64("order.user_id", req.UserID),
		attribute.Int64("order.product_id", req.ProductID),
		attribute.Int("order.quantity", req.Quantity),
	))
	defer span.End()

	o, err := s.placeOrder(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.id", o.ID))
	return o, nil
}

func (s *Service) placeOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	lg := zctx.From(ctx)

	// Structural validation before any remote call.
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// User validation. A negative verdict is a business rejection; only
	// transport failures map to DependencyError.
	verdict, err := s.directory.Validate(ctx, req.UserID)
	if err != nil {
		return nil, &DependencyError{Dependency: DependencyDirectory, Err: err}
	}
	if !verdict.Valid || verdict.User == nil || !verdict.User.Active {
		detail := verdict.Reason
		if detail == "" {
			detail = "rejected by directory"
		}
		lg.Info("user validation rejected",
			zap.Int64("user_id", req.UserID),
			zap.String("detail", detail))
		return nil, &UserInvalidError{UserID: req.UserID, Detail: detail}
	}

	// Advisory stock check: fast-reject known shortages so we never reserve
	// against insufficient stock. Reserve remains the source of truth.
	stock, err := s.inventory.CheckStock(ctx, req.ProductID)
	if err != nil {
		return nil, &DependencyError{Dependency: DependencyInventory, Err: err}
	}
	if !stock.Available || stock.Stock < req.Quantity {
		lg.Info("insufficient stock",
			zap.Int64("product_id", req.ProductID),
			zap.Int("requested", req.Quantity),
			zap.Int("stock", stock.Stock))
		return nil, &InsufficientStockError{
			ProductID: req.ProductID,
			Requested: req.Quantity,
			Stock:     stock.Stock,
		}
	}

	// Capture the unit price at check time; it is immutable on the order.
	prod, err := s.inventory.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, &DependencyError{Dependency: DependencyInventory, Err: err}
	}

	// Reservation: the single mutating remote call. The catalog re-validates
	// availability under its own lock and fails cleanly when the advisory
	// check raced with a concurrent reservation.
	res, err := s.inventory.Reserve(ctx, req.ProductID, req.Quantity)
	if err != nil {
		return nil, &DependencyError{Dependency: DependencyInventory, Err: err}
	}
	if !res.Reserved {
		detail := res.Reason
		if detail == "" {
			detail = "rejected by catalog"
		}
		return nil, &ReservationFailedError{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Detail:    detail,
		}
	}

	// Commit: append to the ledger. On failure, release the reservation made
	// above before surfacing the error. This is the only compensation path.
	draft := NewDraft(req.UserID, req.ProductID, req.Quantity, prod.Price)
	o, err := s.ledger.Append(ctx, draft)
	if err != nil {
		lg.Error("ledger append failed, releasing reservation",
			zap.Int64("product_id", req.ProductID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err))
		if relErr := s.inventory.Release(ctx, req.ProductID, req.Quantity); relErr != nil {
			// Best effort: the release failure is logged but must not mask
			// the append failure.
			lg.Error("compensating release failed",
				zap.Int64("product_id", req.ProductID),
				zap.Int("quantity", req.Quantity),
				zap.Error(relErr))
		}
		return nil, &LedgerWriteError{Err: err}
	}

	lg.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.Int64("user_id", o.UserID),
		zap.Int64("product_id", o.ProductID),
		zap.Int("quantity", o.Quantity),
		zap.String("total", o.Total.String()))
	return o, nil
}

func validateRequest(req PlaceOrderRequest) error {
	switch {
	case req.UserID <= 0:
		return &InvalidRequestError{Field: "user_id"}
	case req.ProductID <= 0:
		return &InvalidRequestError{Field: "product_id"}
	case req.Quantity <= 0:
		return &InvalidRequestError{Field: "quantity"}
	}
	return nil
}
