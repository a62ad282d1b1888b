package http

import (
	"context"
	"net/http"
	"strings"

	"budget/internal/cache"
	"budget/internal/core"
	applog "budget/internal/log"
)

// Cache keys for aggregate reads.
const (
	keySpending = "spending"
	keyIncome   = "income"
	keyNet      = "net"
	keySummary  = "summary"
)

// sanitizeInput removes control characters (tab excepted) and trims
// whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// pathCategory reads the {category} wildcard.
func pathCategory(r *http.Request) string {
	return sanitizeInput(r.PathValue("category"))
}

// storeFailure logs err with the request logger and answers with a generic
// 500. Store details never reach the client.
func storeFailure(w http.ResponseWriter, r *http.Request, op string, collection core.Collection, category string, err error) {
	logger := applog.NewStructuredLogger(applog.FromContext(r.Context()))
	logger.LogLedgerError(r.Context(), "Ledger operation failed", err, op, collection.String(), category)
	InternalServerError("ledger operation failed").Write(w)
}

// cached returns the value under key, loading it on a miss. The loaded value
// is stored only if no mutation invalidated the group while it loaded.
func cached[T any](ctx context.Context, m *cache.Manager, c cache.Cache[T], key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		applog.FromContext(ctx).DebugContext(ctx, "Cache hit", "key", key)
		return v, nil
	}
	gen := m.Generation()
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if !m.SetIfCurrent(gen, func() { c.Set(key, v) }) {
		applog.FromContext(ctx).DebugContext(ctx, "Cache fill skipped after invalidation", "key", key)
	}
	return v, nil
}
