// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package dashboard

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/constants"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/dberr"
)

const cacheKey = constants.RedisPrefixDashboard + "payload"

// RedisCache stores the dashboard payload as a JSON blob with a TTL.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached payload, or [dberr.ErrNotFound] on a cache miss.
func (cache *RedisCache) Get(context stdctx.Context) (*Payload, error) {
	raw, err := cache.client.Get(context, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dberr.ErrNotFound
		}
		return nil, err
	}

	payload := &Payload{}
	if err := json.Unmarshal(raw, payload); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, dberr.ErrNotFound
	}

	return payload, nil
}

// Set stores the payload, replacing any previous entry.
func (cache *RedisCache) Set(context stdctx.Context, payload *Payload, ttl time.Duration) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return cache.client.Set(context, cacheKey, raw, ttl).Err()
}
