// Package handler contains the chi HTTP surfaces of the three services: the
// order service (orchestration entry), the user directory service, and the
// product catalog service.
package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"

	"github.com/ordersvc/fulfillment/internal/domain/order"
	"github.com/ordersvc/fulfillment/internal/domain/product"
	"github.com/ordersvc/fulfillment/internal/domain/user"
)

// writeJSON encodes a response body with jx and writes it with the given
// status.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes the uniform error body. reason is the stable
// machine-readable discriminator; message is human-readable.
func writeError(w http.ResponseWriter, status int, reason, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("reason")
		e.Str(reason)
		e.FieldStart("message")
		e.Str(message)
		e.ObjEnd()
	})
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(o.ID)
	e.FieldStart("user_id")
	e.Int64(o.UserID)
	e.FieldStart("product_id")
	e.Int64(o.ProductID)
	e.FieldStart("quantity")
	e.Int(o.Quantity)
	e.FieldStart("unit_price")
	e.Num(jx.Num(o.UnitPrice.String()))
	e.FieldStart("total")
	e.Num(jx.Num(o.Total.String()))
	e.FieldStart("status")
	e.Str(string(o.Status))
	e.FieldStart("created_at")
	e.Str(o.CreatedAt.Format(time.RFC3339Nano))
	e.ObjEnd()
}

func encodeUser(e *jx.Encoder, u *user.User) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(u.ID)
	e.FieldStart("name")
	e.Str(u.Name)
	e.FieldStart("email")
	e.Str(u.Email)
	e.FieldStart("active")
	e.Bool(u.Active)
	e.ObjEnd()
}

func encodeProduct(e *jx.Encoder, p *product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	e.Num(jx.Num(p.Price.String()))
	e.FieldStart("stock")
	e.Int(p.Stock)
	e.ObjEnd()
}
