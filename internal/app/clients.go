package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/promptcraft-backend/internal/platform/cache"
	"github.com/yungbote/promptcraft-backend/internal/platform/llm"
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
)

type Clients struct {
	LLM   llm.Client
	Redis *goredis.Client
	Cache cache.RecordCache
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	llmClient, err := llm.NewClient(ctx, cfg.LLM, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init llm client: %w", err)
	}
	log.Info("LLM client ready", "provider", llmClient.Provider(), "model", llmClient.Model())

	// Redis is optional; the record cache falls back to a no-op.
	var rdb *goredis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
	}

	return Clients{
		LLM:   llmClient,
		Redis: rdb,
		Cache: cache.NewRedis(log, rdb, cfg.RedisTTL),
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
}
