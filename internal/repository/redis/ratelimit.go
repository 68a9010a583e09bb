package redis

import (
	"context"
	"fmt"
	"time"
)

const rateLimitWindow = time.Minute

// RateLimiter counts requests per caller in fixed one-minute windows. Each
// window gets its own key, so a counter never outlives the window it counts.
type RateLimiter struct {
	client *Client
	limit  int
	now    func() time.Time
}

// NewRateLimiter allows requestsPerMinute plus burst requests per window
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  requestsPerMinute + burst,
		now:    time.Now,
	}
}

// Limit is the number of requests allowed per window
func (r *RateLimiter) Limit() int {
	return r.limit
}

// Allow records one request for key and reports whether it fits in the
// current window, how many requests remain and when the window resets.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	start := r.now().Truncate(rateLimitWindow)
	counterKey := windowKey(key, start)

	pipe := r.client.rdb.TxPipeline()
	hits := pipe.Incr(ctx, counterKey)
	pipe.ExpireNX(ctx, counterKey, rateLimitWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to count request for %s: %w", key, err)
	}

	used := int(hits.Val())
	return used <= r.limit, max(r.limit-used, 0), start.Add(rateLimitWindow), nil
}

func windowKey(key string, start time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", key, start.Unix())
}
