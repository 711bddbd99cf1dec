package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/patrickmn/go-cache"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"MyPetCare/config"
	"MyPetCare/pkg/errors"
	"MyPetCare/pkg/logger"
	"MyPetCare/pkg/response"
	"MyPetCare/storage/redis"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// 时间窗口
	Window time.Duration
	// 时间窗口内最大请求数
	MaxRequests int
	// 限流键前缀
	KeyPrefix string
}

// RateCounter 记录一次请求并返回窗口内的请求数
type RateCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
}

// RedisRateCounter 基于 zset 的滑动窗口，多实例共享计数
type RedisRateCounter struct {
	client goredis.Cmdable
}

func NewRedisRateCounter(client goredis.Cmdable) *RedisRateCounter {
	return &RedisRateCounter{client: client}
}

func (r *RedisRateCounter) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	pipe := r.client.Pipeline()

	// 先移除窗口之外的请求记录
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZAdd(ctx, key, goredis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	zcardCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window+10*time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	return int(zcardCmd.Val()), nil
}

// MemoryRateCounter 进程内固定窗口计数
type MemoryRateCounter struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemoryRateCounter() *MemoryRateCounter {
	return &MemoryRateCounter{cache: cache.New(time.Minute, 5*time.Minute)}
}

func (m *MemoryRateCounter) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.cache.Add(key, 1, window); err == nil {
		return 1, nil
	}
	return m.cache.IncrementInt(key, 1)
}

// RateLimitMiddleware 按客户端 IP 限流，超出后返回 429
func RateLimitMiddleware(cfg RateLimitConfig, counter RateCounter) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		key := redis.Key(cfg.KeyPrefix, "ip:"+c.ClientIP())

		count, err := counter.Hit(ctx, key, cfg.Window)
		if err != nil {
			logger.Logger.Error("Failed to check rate limit", zap.Error(err))
			response.Error(ctx, c, err)
			c.Abort()
			return
		}

		remaining := cfg.MaxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		c.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(cfg.Window).Unix(), 10))

		if count > cfg.MaxRequests {
			logger.Logger.Warn("Rate limit exceeded",
				zap.String("key_prefix", cfg.KeyPrefix),
				zap.String("request_id", GetRequestID(c)),
				zap.Int("count", count),
			)
			response.Error(ctx, c, errors.TooManyRequests)
			c.Abort()
			return
		}

		c.Next(ctx)
	}
}

// SessionRateLimitMiddleware 限制创建引导会话的频率，SESSION_RATE_LIMIT=0 时关闭
func SessionRateLimitMiddleware() app.HandlerFunc {
	cfg := config.Cfg
	if cfg.SessionRateLimit == 0 {
		return func(ctx context.Context, c *app.RequestContext) {
			c.Next(ctx)
		}
	}

	var counter RateCounter
	if cfg.UseRedisSessions() {
		counter = NewRedisRateCounter(redis.Client())
	} else {
		counter = NewMemoryRateCounter()
	}

	return RateLimitMiddleware(RateLimitConfig{
		Window:      cfg.SessionRateLimitWindow(),
		MaxRequests: cfg.SessionRateLimit,
		KeyPrefix:   "onboarding:rate",
	}, counter)
}
