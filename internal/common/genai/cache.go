package genai

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"kisan-sathi/internal/common/database"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/metrics"

	"github.com/cespare/xxhash/v2"
)

// Cached serves repeated prompts from Redis. Requests carrying images are
// never cached.
type Cached struct {
	next   Generator
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCached(next Generator, redis *database.RedisClient, ttl time.Duration, log logger.Logger) *Cached {
	return &Cached{next: next, redis: redis, ttl: ttl, logger: log}
}

func (c *Cached) Name() string { return c.next.Name() }

func (c *Cached) Generate(ctx context.Context, req Request) (string, error) {
	if c.redis == nil || c.ttl <= 0 || len(req.Images) > 0 {
		return c.next.Generate(ctx, req)
	}

	key := c.key(req)
	var cached string
	err := c.redis.GetJSON(ctx, key, &cached)
	if err == nil {
		metrics.GenAIRequests.WithLabelValues(c.next.Name(), "cached").Inc()
		return cached, nil
	}
	if !stderrors.Is(err, database.ErrCacheMiss) {
		c.logger.Warn("genai cache read failed", map[string]interface{}{"key": key, "error": err})
	}

	text, err := c.next.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	if err := c.redis.SetJSON(ctx, key, text, c.ttl); err != nil {
		c.logger.Warn("genai cache write failed", map[string]interface{}{"key": key, "error": err})
	}
	return text, nil
}

func (c *Cached) key(req Request) string {
	h := xxhash.New()
	_, _ = h.WriteString(c.next.Name())
	_, _ = h.WriteString(strconv.FormatBool(req.JSON))
	_, _ = h.WriteString(req.Prompt)
	return "genai:" + strconv.FormatUint(h.Sum64(), 16)
}
