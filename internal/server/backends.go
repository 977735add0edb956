package server

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/dmitrijs2005/filesmanager/internal/server/content"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"github.com/dmitrijs2005/filesmanager/internal/server/thumbnails"
	"github.com/redis/go-redis/v9"
)

// memoryQueueCapacity bounds the in-process thumbnail queue.
const memoryQueueCapacity = 1024

// needsRedis reports whether any configured backend talks to Redis.
func needsRedis(c *config.Config) bool {
	return c.SessionBackend == config.SessionsRedis || c.QueueBackend == config.QueueRedis
}

func newRedisClient(c *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
}

func newSessionStore(c *config.Config, rdb *redis.Client, logger logging.Logger) (sessions.Store, error) {
	switch c.SessionBackend {
	case config.SessionsMemory:
		return sessions.NewMemoryStore(), nil
	case config.SessionsRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis session store needs a redis client")
		}
		return sessions.NewRedisStore(rdb, logger), nil
	case config.SessionsBadger:
		store, err := sessions.OpenBadgerStore(c.BadgerDir)
		if err != nil {
			return nil, fmt.Errorf("badger sessions: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown session backend %q", c.SessionBackend)
}

func newContentStore(ctx context.Context, c *config.Config) (content.Store, error) {
	switch c.ContentBackend {
	case config.ContentFilesystem:
		store, err := content.NewFilesystemStore(c.FolderPath)
		if err != nil {
			return nil, fmt.Errorf("content folder: %w", err)
		}
		return store, nil
	case config.ContentS3:
		store, err := content.NewS3Store(ctx, content.S3Config{
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 content: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown content backend %q", c.ContentBackend)
}

func newQueue(c *config.Config, rdb *redis.Client) (thumbnails.Queue, error) {
	switch c.QueueBackend {
	case config.QueueMemory:
		return thumbnails.NewMemoryQueue(memoryQueueCapacity), nil
	case config.QueueRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis queue needs a redis client")
		}
		return thumbnails.NewRedisQueue(rdb, c.QueueName), nil
	}
	return nil, fmt.Errorf("unknown queue backend %q", c.QueueBackend)
}
