package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"line-assistant-backend/internal/common/logger"
	"line-assistant-backend/internal/platform/line"
)

// ProfileSource fetches a profile when the cache misses.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*line.Profile, error)
}

// ProfileCache caches LINE user profiles in redis with a TTL, falling back
// to the source on miss or on any cache trouble. Cache faults are logged
// and absorbed: personalization never breaks message handling.
type ProfileCache struct {
	client *redis.Client
	source ProfileSource
	ttl    time.Duration
}

func NewProfileCache(client *redis.Client, source ProfileSource, ttl time.Duration) *ProfileCache {
	return &ProfileCache{client: client, source: source, ttl: ttl}
}

func (c *ProfileCache) key(userID string) string {
	return fmt.Sprintf("profile:%s", userID)
}

func (c *ProfileCache) GetProfile(ctx context.Context, userID string) (*line.Profile, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err == nil {
		var p line.Profile
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
		// Unreadable entry: drop it and refetch.
		_ = c.client.Del(ctx, c.key(userID)).Err()
	} else if err != redis.Nil {
		logger.Warn().Str("user_id", userID).Err(err).Msg("Profile cache read failed")
	}

	p, err := c.source.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(p); err == nil {
		if err := c.client.Set(ctx, c.key(userID), b, c.ttl).Err(); err != nil {
			logger.Warn().Str("user_id", userID).Err(err).Msg("Profile cache write failed")
		}
	}
	return p, nil
}
