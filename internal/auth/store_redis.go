// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package auth

import (
	stdctx "context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/apperr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/constants"
)

// RedisSessionRepository implements SessionRepository using Redis.
//
// Expiry is delegated entirely to Redis TTLs; there is no sweeper to run.
type RedisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(sessionID string) string {
	return constants.RedisPrefixSession + sessionID
}

/*
Set stores a session record mapping sessionID to accountID with a TTL.

Returns:
  - error: Storage failures
*/
func (repository *RedisSessionRepository) Set(context stdctx.Context, sessionID, accountID string, ttl time.Duration) error {
	if err := repository.client.Set(context, sessionKey(sessionID), accountID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

/*
Get retrieves the accountID for a session.

Description: Returns apperr.Unauthorized if the session is absent or
expired, so callers can surface a clean 401 without translation.

Returns:
  - string: Owning account ID
  - error: apperr.Unauthorized or connectivity errors
*/
func (repository *RedisSessionRepository) Get(context stdctx.Context, sessionID string) (string, error) {
	accountID, err := repository.client.Get(context, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.Unauthorized("Session is invalid or expired")
		}
		return "", fmt.Errorf("redis_session_get_failed: %w", err)
	}
	return accountID, nil
}

/*
Delete revokes a session immediately.

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionRepository) Delete(context stdctx.Context, sessionID string) error {
	if err := repository.client.Del(context, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
