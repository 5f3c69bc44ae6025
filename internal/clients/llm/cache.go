package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// Cache stores successful completions. Implementations report a miss as
// ok=false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type cacheOptsKey struct{}

type cacheOpts struct {
	bypass bool
	accept func(string) bool
}

func cacheOptsFrom(ctx context.Context) cacheOpts {
	o, _ := ctx.Value(cacheOptsKey{}).(cacheOpts)
	return o
}

func (o cacheOpts) accepts(out string) bool {
	return o.accept == nil || o.accept(out)
}

// WithCacheBypass marks ctx so the completion cache is not read and the call
// is not shared with in-flight identical prompts. An accepted result is
// still stored, replacing the previous entry.
func WithCacheBypass(ctx context.Context) context.Context {
	o := cacheOptsFrom(ctx)
	o.bypass = true
	return context.WithValue(ctx, cacheOptsKey{}, o)
}

// WithCacheCheck installs accept as the judge of completions for calls made
// with ctx: a cached value it rejects counts as a miss, and an upstream
// result it rejects is returned but not stored.
func WithCacheCheck(ctx context.Context, accept func(string) bool) context.Context {
	o := cacheOptsFrom(ctx)
	o.accept = accept
	return context.WithValue(ctx, cacheOptsKey{}, o)
}

type cachedClient struct {
	inner    Client
	cache    Cache
	provider string
	ttl      time.Duration
	log      *logger.Logger
	group    singleflight.Group
}

// WithCache serves repeated identical prompts from cache and collapses
// concurrent identical prompts into one upstream call. Cache failures are
// logged and bypassed. A nil cache or non-positive ttl returns inner.
func WithCache(inner Client, cache Cache, provider string, ttl time.Duration, log *logger.Logger) Client {
	if cache == nil || ttl <= 0 {
		return inner
	}
	if log == nil {
		log = logger.Nop()
	}
	return &cachedClient{inner: inner, cache: cache, provider: provider, ttl: ttl, log: log}
}

func (c *cachedClient) Model() string { return c.inner.Model() }

func (c *cachedClient) Complete(ctx context.Context, prompt string) (string, error) {
	key := CacheKey(c.provider, c.inner.Model(), prompt)
	opts := cacheOptsFrom(ctx)

	if opts.bypass {
		return c.fetch(ctx, key, prompt, opts)
	}

	if v, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn("completion cache get failed", "error", err)
	} else if ok {
		if opts.accepts(v) {
			return v, nil
		}
		c.log.Debug("cached completion rejected; refetching")
	}

	// The shared call outlives any single caller; each caller waits on its
	// own ctx.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.fetch(context.WithoutCancel(ctx), key, prompt, opts)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return "", r.Err
		}
		return r.Val.(string), nil
	}
}

func (c *cachedClient) fetch(ctx context.Context, key, prompt string, opts cacheOpts) (string, error) {
	out, err := c.inner.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if !opts.accepts(out) {
		return out, nil
	}
	if err := c.cache.Set(context.WithoutCancel(ctx), key, out, c.ttl); err != nil {
		c.log.Warn("completion cache set failed", "error", err)
	}
	return out, nil
}

func CacheKey(provider, model, prompt string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{'|'})
	h.Write([]byte(model))
	h.Write([]byte{'|'})
	h.Write([]byte(prompt))
	return "studyplan:llm:" + hex.EncodeToString(h.Sum(nil))
}
