package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
)

// RecordCache stores serialized records by id. Misses and backend errors are
// reported as a miss; callers fall through to the database.
type RecordCache interface {
	Get(ctx context.Context, id string) ([]byte, bool)
	Set(ctx context.Context, id string, raw []byte)
	Delete(ctx context.Context, id string)
	Close() error
}

const keyPrefix = "enhancement:"

func Key(id string) string { return keyPrefix + strings.TrimSpace(id) }

type redisCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisClient dials addr and verifies it with a ping.
func NewRedisClient(ctx context.Context, addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewRedis wraps an existing client. ttl <= 0 keeps entries until overwritten.
func NewRedis(log *logger.Logger, rdb *goredis.Client, ttl time.Duration) RecordCache {
	if rdb == nil {
		return NewNop()
	}
	if log == nil {
		log = logger.NewNop()
	}
	if ttl < 0 {
		ttl = 0
	}
	return &redisCache{log: log.With("cache", "RedisRecordCache"), rdb: rdb, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, id string) ([]byte, bool) {
	raw, err := c.rdb.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("cache get failed", "id", id, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *redisCache) Set(ctx context.Context, id string, raw []byte) {
	if err := c.rdb.Set(ctx, Key(id), raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "id", id, "error", err)
	}
}

func (c *redisCache) Delete(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, Key(id)).Err(); err != nil {
		c.log.Warn("cache delete failed", "id", id, "error", err)
	}
}

func (c *redisCache) Close() error { return c.rdb.Close() }

type nopCache struct{}

// NewNop returns a cache that never hits.
func NewNop() RecordCache { return nopCache{} }

func (nopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (nopCache) Set(context.Context, string, []byte)        {}
func (nopCache) Delete(context.Context, string)             {}
func (nopCache) Close() error                               { return nil }
