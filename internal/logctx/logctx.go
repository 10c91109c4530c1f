// Package logctx carries a request-scoped logger through the context.
package logctx

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type key struct{}

var k key

func Into(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, k, l)
}

func From(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	if v := ctx.Value(k); v != nil {
		if l, ok := v.(zerolog.Logger); ok {
			return l
		}
	}
	return fallback
}

// Middleware tags every request with a request_id and stores the tagged
// logger in the request context.
func Middleware(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base.With().Str("request_id", uuid.NewString()).Logger()
			next.ServeHTTP(w, r.WithContext(Into(r.Context(), l)))
		})
	}
}
