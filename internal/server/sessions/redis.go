package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as plain keys with a native expiry.
type RedisStore struct {
	rdb    *redis.Client
	logger logging.Logger
}

func NewRedisStore(rdb *redis.Client, logger logging.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, logger: logger.With("module", "sessions_redis")}
}

func (s *RedisStore) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, Key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, Key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", common.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return userID, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, Key(token)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	err := s.rdb.Ping(ctx).Err()
	if err != nil {
		s.logger.Warn(ctx, "PING failed", "error", err)
	}
	return err
}

// Close is a no-op; the client is owned by the caller.
func (s *RedisStore) Close() error {
	return nil
}
