package httpmiddleware

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Recovery returns a middleware that converts handler panics into a JSON 500
// response with the same {code, reason, message} shape the API handlers
// serve. The panic value and stack are logged through zctx before the
// response is written.
func Recovery() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				zctx.From(r.Context()).Error("panic recovered",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				writePanicResponse(w)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// writePanicResponse writes the uniform error body. The handler may have
// already written a partial response; in that case WriteHeader is a no-op and
// closing the connection is all that is left to do.
func writePanicResponse(w http.ResponseWriter) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(http.StatusInternalServerError)
	e.FieldStart("reason")
	e.Str("internal_error")
	e.FieldStart("message")
	e.Str("unexpected error")
	e.ObjEnd()

	w.Header().Set("Connection", "close")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(e.Bytes())
}
