package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrCacheMiss = errors.New("cache miss")

// LookupCache fronts remote directory lookups so repeated validations of
// the same user or doctor do not hammer the peer services. Only positive
// results are cached: an absent entity may appear at any moment and must
// stay visible immediately.
type LookupCache interface {
	Get(ctx context.Context, kind, id string, out any) error
	Set(ctx context.Context, kind, id string, value any) error
}

type redisLookupCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLookupCache creates a cache keyed per entity kind and id.
func NewLookupCache(client *redis.Client, ttl time.Duration) LookupCache {
	return &redisLookupCache{
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(kind, id string) string {
	return fmt.Sprintf("dir:%s:%s", kind, id)
}

func (c *redisLookupCache) Get(ctx context.Context, kind, id string, out any) error {
	raw, err := c.client.Get(ctx, cacheKey(kind, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		// A corrupt entry behaves as a miss; the caller refreshes it.
		logrus.WithFields(logrus.Fields{
			"kind": kind,
			"id":   id,
		}).Warnf("discarding undecodable cache entry: %v", err)
		return ErrCacheMiss
	}

	return nil
}

func (c *redisLookupCache) Set(ctx context.Context, kind, id string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(kind, id), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	return nil
}
