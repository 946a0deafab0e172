package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/security"
)

const redisKeyPrefix = "session:"

// RedisManager keeps the token table in a shared cache. Expiry rides on the
// key TTL, so there is nothing to purge.
type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisManager(client *redis.Client, ttl time.Duration) *RedisManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisManager{client: client, ttl: ttl}
}

func redisKey(token string) string {
	return redisKeyPrefix + hex.EncodeToString(security.HashSessionToken(token))
}

func (m *RedisManager) Create(ctx context.Context, userID int64) (string, error) {
	token, _, err := security.GenerateSessionToken()
	if err != nil {
		return "", err
	}

	if err := m.client.Set(ctx, redisKey(token), strconv.FormatInt(userID, 10), m.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (m *RedisManager) Resolve(ctx context.Context, token string) (int64, error) {
	value, err := m.client.Get(ctx, redisKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrUnauthenticated
		}
		return 0, fmt.Errorf("resolve session: %w", err)
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, ErrUnauthenticated
	}
	return userID, nil
}

func (m *RedisManager) Destroy(ctx context.Context, token string) error {
	return m.client.Del(ctx, redisKey(token)).Err()
}
