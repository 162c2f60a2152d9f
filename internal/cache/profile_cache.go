package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"synthdata-wizard-api/internal/domain"
)

// DefaultTTL is applied when the cache is created without a TTL
const DefaultTTL = 10 * time.Minute

// ProfileCache caches profile payloads. Failures are logged and treated as
// misses.
type ProfileCache interface {
	Get(ctx context.Context, profileID string) (*domain.ProfileData, bool)
	Set(ctx context.Context, profileID string, data domain.ProfileData)
	Invalidate(ctx context.Context, profileID string)
}

type redisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisProfileCache creates a redis backed cache. A nil client yields a
// cache that never hits.
func NewRedisProfileCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ProfileCache {
	if client == nil {
		return NoopProfileCache{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisProfileCache{client: client, ttl: ttl, logger: logger}
}

// ProfileDataKey returns the redis key of a profile payload
func ProfileDataKey(profileID string) string {
	return fmt.Sprintf("synthdata:profile:%s:data", profileID)
}

func (c *redisProfileCache) Get(ctx context.Context, profileID string) (*domain.ProfileData, bool) {
	raw, err := c.client.Get(ctx, ProfileDataKey(profileID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Failed to read profile cache", zap.String("profile_id", profileID), zap.Error(err))
		}
		return nil, false
	}

	var data domain.ProfileData
	if err := json.Unmarshal(raw, &data); err != nil {
		c.logger.Warn("Discarding malformed profile cache entry", zap.String("profile_id", profileID), zap.Error(err))
		c.Invalidate(ctx, profileID)
		return nil, false
	}
	return &data, true
}

func (c *redisProfileCache) Set(ctx context.Context, profileID string, data domain.ProfileData) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.logger.Error("Failed to serialise profile cache entry", zap.String("profile_id", profileID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, ProfileDataKey(profileID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to write profile cache", zap.String("profile_id", profileID), zap.Error(err))
	}
}

func (c *redisProfileCache) Invalidate(ctx context.Context, profileID string) {
	if err := c.client.Del(ctx, ProfileDataKey(profileID)).Err(); err != nil {
		c.logger.Warn("Failed to invalidate profile cache", zap.String("profile_id", profileID), zap.Error(err))
	}
}

// NoopProfileCache never stores anything
type NoopProfileCache struct{}

func (NoopProfileCache) Get(context.Context, string) (*domain.ProfileData, bool) { return nil, false }
func (NoopProfileCache) Set(context.Context, string, domain.ProfileData)         {}
func (NoopProfileCache) Invalidate(context.Context, string)                      {}
