package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const limiterPrefix = "receiptsplit:limiter"

var errRateLimited = errors.New("too many requests, please try again later")

// NewRateLimiter builds a per-client-IP rate limiting middleware from a
// formatted rate such as "10-M". Counters live in Redis when rdb is non-nil
// and reachable, and in process memory otherwise. Rejections are written as
// Connect resource_exhausted errors.
func NewRateLimiter(formatted string, rdb redis.UniversalClient) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formatted, err)
	}

	var store limiter.Store
	if rdb != nil {
		store, err = limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: limiterPrefix})
		if err != nil {
			slog.Warn("Redis limiter store unavailable, using in-memory counters", "error", err)
			store = nil
		}
	}
	if store == nil {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          limiterPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
	}

	errWriter := connect.NewErrorWriter()
	mw := stdlib.NewMiddleware(limiter.New(store, rate),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("Rate limit reached", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			_ = errWriter.Write(w, r, connect.NewError(connect.CodeResourceExhausted, errRateLimited))
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("Rate limiter failed", "error", err)
			_ = errWriter.Write(w, r, connect.NewError(connect.CodeUnavailable, err))
		}),
	)
	return mw.Handler, nil
}
