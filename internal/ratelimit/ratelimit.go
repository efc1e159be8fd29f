package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"blog-service/internal/shared/httpx"
)

// Limiter throttles requests per client key over a sliding window.
// It wraps the API from the outside; the post store itself is never
// throttled.
type Limiter struct{ R *redis.Client }

func New(r *redis.Client) *Limiter { return &Limiter{R: r} }

func (l *Limiter) AllowSliding(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	k := "rl:" + key
	pipe := l.R.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, err
	}
	n := incr.Val()
	return n <= limit, n, nil
}

func (l *Limiter) LimitHTTP(limit int64, window time.Duration, keyFn func(*http.Request) string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := keyFn(r)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		ok, n, err := l.AllowSliding(r.Context(), key, limit, window)
		if err != nil {
			httpx.WriteError(w, r, httpx.NewError(http.StatusTooManyRequests,
				"RATE_LIMIT_UNAVAILABLE", "Rate limiter error."))
			return
		}
		if !ok {
			httpx.WriteError(w, r, httpx.NewError(http.StatusTooManyRequests,
				"RATE_LIMIT_EXCEEDED",
				fmt.Sprintf("Rate limit exceeded (count=%d, limit=%d).", n, limit)))
			return
		}
		next.ServeHTTP(w, r)
	})
}
