package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/carewatch/carewatch/module/core/domain"
	"github.com/carewatch/carewatch/module/core/internal/repository/database"
)

var _ database.GeofenceRepository = (*GeofenceCache)(nil)

const keyPrefix = "geofences:active:"

// GeofenceCache is a read-through cache over a geofence repository. Active
// fences change rarely but are read on every sample, so misses and redis
// errors fall back to the inner repository rather than failing the pipeline.
type GeofenceCache struct {
	client *redis.Client
	inner  database.GeofenceRepository
	ttl    time.Duration
	logger *zap.Logger
}

func NewGeofenceCache(client *redis.Client, inner database.GeofenceRepository, ttl time.Duration, logger *zap.Logger) *GeofenceCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &GeofenceCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *GeofenceCache) ListActiveByUser(ctx context.Context, userID string) ([]domain.Geofence, error) {
	key := keyPrefix + userID

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var fences []domain.Geofence
		if err := json.Unmarshal(data, &fences); err == nil {
			return fences, nil
		}
		c.logger.Warn("corrupt geofence cache entry, refetching", zap.String("key", key))
	} else if err != redis.Nil {
		c.logger.Warn("geofence cache read failed", zap.String("key", key), zap.Error(err))
	}

	fences, err := c.inner.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(fences); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("geofence cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return fences, nil
}

// Invalidate drops the cached fence list for a user, to be called by the
// management API after a geofence edit.
func (c *GeofenceCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, keyPrefix+userID).Err()
}
