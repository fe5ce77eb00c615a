/**
 * @description
 * Read-through Redis cache in front of the processor client. Subscription
 * status is checked on nearly every request through the resolver; caching
 * it for a short TTL keeps the processor out of the hot path. Cache
 * failures degrade to a direct check, never to a denied request.
 */
package billing

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

// Checker is the subscription-check surface the cache wraps.
type Checker interface {
	CheckSubscription(ctx context.Context, email string) (*domain.BillingStatus, error)
}

// CachedClient wraps a Checker with a Redis read-through cache.
type CachedClient struct {
	inner  Checker
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedClient creates a CachedClient. A nil redis client disables
// caching and every call goes straight through.
func NewCachedClient(inner Checker, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedClient {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedClient{inner: inner, client: client, ttl: ttl, logger: logger}
}

func cacheKey(email string) string {
	return "fitscan:billing:" + email
}

// CheckSubscription returns the cached status when fresh, otherwise asks
// the processor and stores the answer.
func (c *CachedClient) CheckSubscription(ctx context.Context, email string) (*domain.BillingStatus, error) {
	if c.client != nil {
		raw, err := c.client.Get(ctx, cacheKey(email)).Result()
		if err == nil {
			var status domain.BillingStatus
			if jsonErr := json.Unmarshal([]byte(raw), &status); jsonErr == nil {
				return &status, nil
			}
		} else if err != redis.Nil {
			c.logger.Warn("billing cache read failed", "err", err)
		}
	}

	status, err := c.inner.CheckSubscription(ctx, email)
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		if raw, jsonErr := json.Marshal(status); jsonErr == nil {
			if err := c.client.Set(ctx, cacheKey(email), raw, c.ttl).Err(); err != nil {
				c.logger.Warn("billing cache write failed", "err", err)
			}
		}
	}
	return status, nil
}
