package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/studyplan-backend/internal/clients/llm"
	"github.com/yungbote/studyplan-backend/internal/clients/redis"
	"github.com/yungbote/studyplan-backend/internal/config"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type Clients struct {
	LLM   llm.Client
	Cache *redis.CompletionCache
}

func wireClients(ctx context.Context, cfg *config.Config, log *logger.Logger, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var cache *redis.CompletionCache
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		c, err := redis.NewCompletionCache(log, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis completion cache: %w", err)
		}
		cache = c
	}

	var llmCache llm.Cache
	if cache != nil {
		llmCache = cache
	}
	var obs llm.CompletionObserver
	if metrics != nil {
		obs = metrics
	}

	// LLM
	client, err := llm.New(ctx, cfg.LLM, llmCache, obs, log)
	if err != nil {
		if cache != nil {
			_ = cache.Close()
		}
		return Clients{}, fmt.Errorf("init llm client: %w", err)
	}

	return Clients{LLM: client, Cache: cache}, nil
}

func (c Clients) Close() error {
	if c.Cache != nil {
		return c.Cache.Close()
	}
	return nil
}
