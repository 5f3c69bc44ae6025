package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// CompletionCache stores provider completions keyed by prompt hash.
type CompletionCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewCompletionCache(log *logger.Logger, opts Options) (*CompletionCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewCompletionCacheWithClient(log, rdb), nil
}

// NewCompletionCacheWithClient wraps an existing client; it skips the ping.
func NewCompletionCacheWithClient(log *logger.Logger, rdb *goredis.Client) *CompletionCache {
	return &CompletionCache{log: log.With("service", "RedisCompletionCache"), rdb: rdb}
}

func (c *CompletionCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *CompletionCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *CompletionCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *CompletionCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
