package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/eightbin/internal/shortener"
	"go.uber.org/zap"
)

// incrIfCached bumps a cached count only while it is still cached, so a write
// never creates a counter without a TTL.
var incrIfCached = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("INCR", KEYS[1])
end
return 0
`)

// CountCache caches namespace occupancy counts in Redis.
// Exists and Put pass through; a successful Put increments the cached count of
// the key's namespace on a best-effort basis.
type CountCache struct {
	next   Backend
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCountCache wraps next with a Redis count cache.
func NewCountCache(next Backend, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CountCache {
	return &CountCache{
		next:   next,
		client: client,
		prefix: "eightbin:count:",
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CountCache) Exists(ctx context.Context, key string) (bool, error) {
	return c.next.Exists(ctx, key)
}

func (c *CountCache) Put(ctx context.Context, obj *shortener.Object) error {
	if err := c.next.Put(ctx, obj); err != nil {
		return err
	}

	if err := incrIfCached.Run(ctx, c.client, []string{c.cacheKey(keyPrefix(obj.Key))}).Err(); err != nil {
		c.logger.Debug("count cache increment failed", zap.String("key", obj.Key), zap.Error(err))
	}

	return nil
}

// Count serves from the cache, falling back to the wrapped store on a miss or
// any Redis error.
func (c *CountCache) Count(ctx context.Context, prefix string) (int, error) {
	cacheKey := c.cacheKey(prefix)

	cached, err := c.client.Get(ctx, cacheKey).Int()
	if err == nil {
		return cached, nil
	}

	if !errors.Is(err, redis.Nil) {
		c.logger.Debug("count cache read failed", zap.String("prefix", prefix), zap.Error(err))
	}

	count, err := c.next.Count(ctx, prefix)
	if err != nil {
		return 0, err
	}

	if err := c.client.Set(ctx, cacheKey, count, c.ttl).Err(); err != nil {
		c.logger.Debug("count cache write failed", zap.String("prefix", prefix), zap.Error(err))
	}

	return count, nil
}

func (c *CountCache) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

// Shutdown is a no-op; the client is managed by the container.
func (c *CountCache) Shutdown() error {
	return nil
}

func (c *CountCache) cacheKey(prefix string) string {
	if prefix == "" {
		return c.prefix + "root"
	}

	return c.prefix + prefix
}

// keyPrefix returns the delimiter prefix a key is listed under.
func keyPrefix(key string) string {
	idx := strings.LastIndex(key, "/")
	if idx == -1 {
		return ""
	}

	return key[:idx+1]
}

var _ Backend = (*CountCache)(nil)
