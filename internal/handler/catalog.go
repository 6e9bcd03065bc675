package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/ordersvc/fulfillment/internal/domain/product"
	"github.com/ordersvc/fulfillment/internal/storage/memory"
)

// CatalogHandler exposes the product catalog service HTTP surface, including
// the reserve/release pair driven by the order orchestrator.
type CatalogHandler struct {
	store *memory.CatalogStore
}

// NewCatalogHandler constructs a CatalogHandler over the given store.
func NewCatalogHandler(store *memory.CatalogStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// Register mounts the catalog routes on the router.
func (h *CatalogHandler) Register(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{id}", h.getProduct)
		r.Get("/{id}/check-stock", h.checkStock)
		r.Put("/{id}/reserve", h.reserve)
		r.Put("/{id}/release", h.release)
	})
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("products")
		e.ArrStart()
		for i := range products {
			encodeProduct(e, &products[i])
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

type createProductRequest struct {
	Name  string          `json:"name"`
	Price json.RawMessage `json:"price"`
	Stock int             `json:"stock"`
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || len(req.Price) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "name and price are required")
		return
	}

	price, err := decimal.NewFromString(string(req.Price))
	if err != nil || price.IsNegative() {
		writeError(w, http.StatusBadRequest, "invalid_request", "price must be a non-negative number")
		return
	}

	p, err := h.store.Create(r.Context(), product.Product{
		Name:  req.Name,
		Price: price,
		Stock: req.Stock,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeProduct(e, &p)
	})
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeProductError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProduct(e, p)
	})
}

func (h *CatalogHandler) checkStock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	// quantity defaults to 1; the orchestrator re-checks against its own
	// requested quantity anyway, this check is advisory.
	quantity := 1
	if q := r.URL.Query().Get("quantity"); q != "" {
		n, err := parsePositiveInt(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "quantity must be a positive integer")
			return
		}
		quantity = n
	}

	res, err := h.store.CheckStock(r.Context(), id, quantity)
	if err != nil {
		writeProductError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("product_id")
		e.Int64(id)
		e.FieldStart("available")
		e.Bool(res.Available)
		e.FieldStart("stock")
		e.Int(res.Stock)
		e.ObjEnd()
	})
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CatalogHandler) reserve(w http.ResponseWriter, r *http.Request) {
	id, quantity, ok := parseQuantityRequest(w, r)
	if !ok {
		return
	}

	res, err := h.store.Reserve(r.Context(), id, quantity)
	if err != nil {
		writeProductError(w, err)
		return
	}

	// Rejected reservations respond 409; the body shape is identical so the
	// client decodes one way.
	status := http.StatusOK
	if !res.Reserved {
		status = http.StatusConflict
	}

	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("product_id")
		e.Int64(id)
		e.FieldStart("reserved")
		e.Bool(res.Reserved)
		e.FieldStart("remaining_stock")
		e.Int(res.RemainingStock)
		if res.Reason != "" {
			e.FieldStart("reason")
			e.Str(res.Reason)
		}
		e.ObjEnd()
	})
}

func (h *CatalogHandler) release(w http.ResponseWriter, r *http.Request) {
	id, quantity, ok := parseQuantityRequest(w, r)
	if !ok {
		return
	}

	if err := h.store.Release(r.Context(), id, quantity); err != nil {
		writeProductError(w, err)
		return
	}

	p, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeProductError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("product_id")
		e.Int64(id)
		e.FieldStart("stock")
		e.Int(p.Stock)
		e.ObjEnd()
	})
}

func parseQuantityRequest(w http.ResponseWriter, r *http.Request) (int64, int, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return 0, 0, false
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "quantity must be a positive integer")
		return 0, 0, false
	}
	return id, req.Quantity, true
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}

func writeProductError(w http.ResponseWriter, err error) {
	if errors.Is(err, product.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product_not_found", "Product not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
}
