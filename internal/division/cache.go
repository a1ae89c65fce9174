package division

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"registrar/pkg/platform/sentinel"
)

const (
	cacheKeyPrefix = "division:level:"
	// notFoundMarker caches negative lookups so a flood of filings against a
	// bogus division id does not hammer the upstream resolver.
	notFoundMarker = "-1"
)

// CachedResolver decorates a Resolver with a Redis cache. Lookups are
// read-heavy and the hierarchy changes rarely, so a generous TTL is fine.
type CachedResolver struct {
	inner  Resolver
	client *redis.Client
	ttl    time.Duration
}

// NewCachedResolver wraps inner with a Redis cache. A nil client returns
// the inner resolver unwrapped.
func NewCachedResolver(inner Resolver, client *redis.Client, ttl time.Duration) Resolver {
	if client == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedResolver{inner: inner, client: client, ttl: ttl}
}

func (r *CachedResolver) Level(ctx context.Context, divisionID string) (int, error) {
	key := cacheKeyPrefix + divisionID

	cached, err := r.client.Get(ctx, key).Result()
	if err == nil {
		if cached == notFoundMarker {
			return 0, sentinel.ErrNotFound
		}
		if level, convErr := strconv.Atoi(cached); convErr == nil {
			return level, nil
		}
		// Corrupt entry; fall through to the inner resolver and rewrite it.
	} else if !errors.Is(err, redis.Nil) {
		// Cache trouble must not take division lookups down.
		return r.inner.Level(ctx, divisionID)
	}

	level, err := r.inner.Level(ctx, divisionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		_ = r.client.Set(ctx, key, notFoundMarker, r.ttl).Err()
		return 0, err
	}
	if err != nil {
		return 0, err
	}
	_ = r.client.Set(ctx, key, strconv.Itoa(level), r.ttl).Err()
	return level, nil
}
