package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/ordersvc/fulfillment/internal/domain/order"
)

// OrderHandler exposes the order service HTTP surface: placing an order and
// reading the ledger.
type OrderHandler struct {
	svc    *order.Service
	ledger order.Ledger
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(svc *order.Service, ledger order.Ledger) *OrderHandler {
	return &OrderHandler{svc: svc, ledger: ledger}
}

// Register mounts the order routes on the router.
func (h *OrderHandler) Register(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.placeOrder)
		r.Get("/", h.listOrders)
		r.Get("/{id}", h.getOrder)
	})
}

type placeOrderRequest struct {
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *OrderHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, order.ReasonInvalidRequest, "malformed request body")
		return
	}

	o, err := h.svc.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeOrder(e, o)
	})
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, order.ReasonInvalidRequest, "order id must be a positive integer")
		return
	}

	o, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order_not_found", "Order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeOrder(e, o)
	})
}

func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.ledger.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("orders")
		e.ArrStart()
		for i := range orders {
			encodeOrder(e, &orders[i])
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// writeOrderError maps the orchestration error taxonomy to HTTP statuses.
// Every kind keeps its stable reason discriminator so callers never need to
// parse the message text.
func writeOrderError(w http.ResponseWriter, err error) {
	var (
		irErr  *order.InvalidRequestError
		uiErr  *order.UserInvalidError
		depErr *order.DependencyError
		isErr  *order.InsufficientStockError
		rfErr  *order.ReservationFailedError
		lwErr  *order.LedgerWriteError
	)

	switch {
	case errors.As(err, &irErr):
		writeError(w, http.StatusBadRequest, irErr.Reason(), irErr.Error())
	case errors.As(err, &uiErr):
		writeError(w, http.StatusUnprocessableEntity, uiErr.Reason(), uiErr.Error())
	case errors.As(err, &isErr):
		writeError(w, http.StatusUnprocessableEntity, isErr.Reason(), isErr.Error())
	case errors.As(err, &rfErr):
		writeError(w, http.StatusConflict, rfErr.Reason(), rfErr.Error())
	case errors.As(err, &depErr):
		writeError(w, http.StatusBadGateway, depErr.Reason(), depErr.Error())
	case errors.As(err, &lwErr):
		writeError(w, http.StatusInternalServerError, lwErr.Reason(), lwErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
