package tx

import (
	"context"
	"net/http"
)

type key string

const (
	// KeyTx holds the Tx wrapper seeded by the middleware.
	KeyTx = key("tx")
	// KeyConn holds the active transaction the repository opened inside
	// WithTx; the repository resolves it with Chk(ctx).
	KeyConn = key("tx_conn")
)

type DBRepo interface {
	WithTx(ctx context.Context, cb func(ctx context.Context) error) error
}

type Tx struct {
	DbRepo DBRepo
}

// TxMiddlewareHTTP makes the repository's transaction entry point
// available to handlers through the request context.
func TxMiddlewareHTTP(repo DBRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), KeyTx, Tx{DbRepo: repo})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TxExecute runs cb inside a transaction when the middleware seeded one
// into the context, and plainly otherwise so library code stays callable
// from workers and tests.
func TxExecute(ctx context.Context, cb func(ctx context.Context) error) error {
	if t, ok := ctx.Value(KeyTx).(Tx); ok && t.DbRepo != nil {
		return t.DbRepo.WithTx(ctx, cb)
	}
	return cb(ctx)
}
