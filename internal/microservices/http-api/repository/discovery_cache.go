package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"animedrop/internal/logging"
	"animedrop/internal/metrics"
	"animedrop/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

const discoveryVersionKey = "anime:discovery:version"

// NoCacheVersion is returned by Get when the cache generation is unknown; Set
// ignores it.
const NoCacheVersion int64 = -1

// DiscoveryCache caches discovery listings. Every method is best-effort: a
// failed lookup is a miss and failed writes are only logged.
//
// Get reports the cache generation it looked at. A listing read from the
// database after a miss must be stored with Set under that same generation, so
// a write that invalidated the cache in between orphans the stale listing
// instead of publishing it under the new generation.
type DiscoveryCache interface {
	Get(ctx context.Context, filter DiscoveryFilter) (list []models.Anime, version int64, ok bool)
	Set(ctx context.Context, version int64, filter DiscoveryFilter, list []models.Anime)
	Invalidate(ctx context.Context)
}

// RedisDiscoveryCache stores listings under a versioned key prefix. Bumping the
// version orphans every cached listing at once; the TTL reaps them later.
// A nil *RedisDiscoveryCache, or one without a client, is a no-op.
type RedisDiscoveryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDiscoveryCache(client *redis.Client, ttl time.Duration) *RedisDiscoveryCache {
	return &RedisDiscoveryCache{client: client, ttl: ttl}
}

func (c *RedisDiscoveryCache) enabled() bool {
	return c != nil && c.client != nil
}

// discoveryKey builds the cache key for one filter under one version.
func discoveryKey(version int64, filter DiscoveryFilter) string {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	genre := strings.ToLower(strings.TrimSpace(filter.Genre))
	return fmt.Sprintf("anime:discovery:v%d:%s|%s", version, search, genre)
}

func (c *RedisDiscoveryCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, discoveryVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisDiscoveryCache) Get(ctx context.Context, filter DiscoveryFilter) ([]models.Anime, int64, bool) {
	if !c.enabled() {
		return nil, NoCacheVersion, false
	}

	v, err := c.version(ctx)
	if err != nil {
		c.logError(ctx, "read discovery cache version", err)
		return nil, NoCacheVersion, false
	}

	raw, err := c.client.Get(ctx, discoveryKey(v, filter)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.DiscoveryCacheResults.WithLabelValues("miss").Inc()
		return nil, v, false
	}
	if err != nil {
		c.logError(ctx, "read discovery cache", err)
		return nil, v, false
	}

	var list []models.Anime
	if err := json.Unmarshal(raw, &list); err != nil {
		c.logError(ctx, "decode discovery cache", err)
		return nil, v, false
	}
	metrics.DiscoveryCacheResults.WithLabelValues("hit").Inc()
	return list, v, true
}

// Set stores list under version, the generation returned by the Get that
// missed.
func (c *RedisDiscoveryCache) Set(ctx context.Context, version int64, filter DiscoveryFilter, list []models.Anime) {
	if !c.enabled() || version < 0 {
		return
	}

	data, err := json.Marshal(list)
	if err != nil {
		c.logError(ctx, "encode discovery cache", err)
		return
	}
	if err := c.client.Set(ctx, discoveryKey(version, filter), data, c.ttl).Err(); err != nil {
		c.logError(ctx, "write discovery cache", err)
	}
}

func (c *RedisDiscoveryCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Incr(ctx, discoveryVersionKey).Err(); err != nil {
		c.logError(ctx, "invalidate discovery cache", err)
	}
}

func (c *RedisDiscoveryCache) logError(ctx context.Context, op string, err error) {
	metrics.DiscoveryCacheResults.WithLabelValues("error").Inc()
	logging.Ctx(ctx).Warn().Err(err).Str("op", op).Msg("discovery cache unavailable")
}
