package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"go.uber.org/zap"

	"MyPetCare/config"
	"MyPetCare/internal/cache"
	"MyPetCare/internal/middleware"
	"MyPetCare/internal/router"
	"MyPetCare/internal/service"
	"MyPetCare/pkg/logger"
	"MyPetCare/pkg/metrics"
	"MyPetCare/pkg/otel"
	"MyPetCare/pkg/snowflake"
	"MyPetCare/storage"
	"MyPetCare/storage/redis"
)

func main() {
	// 日志部分
	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	// 链路追踪需要在存储层之前初始化，redis hook 会读取全局 provider
	if config.Cfg.OTelEnabled {
		shutdown, err := otel.InitOpenTelemetry(ctx, otel.Config{
			ServiceName:    config.Cfg.ServiceName,
			ServiceVersion: config.Cfg.ServiceVersion,
			Environment:    config.Cfg.Environment,
			OTLPEndpoint:   config.Cfg.OTelEndpoint,
			SampleRatio:    config.Cfg.OTelSampleRatio,
			SessionStore:   config.Cfg.SessionStore,
		})
		if err != nil {
			logger.Logger.Warn("Failed to initialize OpenTelemetry, tracing disabled", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Logger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
				}
			}()
		}
	}

	if err := metrics.InitMetrics(config.Cfg.ServiceName); err != nil {
		logger.Logger.Warn("Failed to initialize onboarding metrics", zap.Error(err))
	}

	// 初始化存储层，记得关闭外部连接
	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	service.InitOnboarding(newSessionStore())

	// 初始化中间件
	if err := middleware.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize middlewares", zap.Error(err))
	}

	logger.Logger.Info("Server starting",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("port", config.Cfg.ServerPort),
		zap.String("environment", config.Cfg.Environment),
		zap.String("session_store", config.Cfg.SessionStore),
	)

	addr := net.JoinHostPort(config.Cfg.ServerHost, config.Cfg.ServerPort)
	opts := []hertzconfig.Option{server.WithHostPorts(addr)}

	var tracingMiddleware app.HandlerFunc
	if config.Cfg.OTelEnabled {
		tracer, mw := middleware.NewServerTracerConfig()
		opts = append(opts, tracer)
		tracingMiddleware = mw
	}

	h := server.Default(opts...)
	if tracingMiddleware != nil {
		// 需要在其他中间件之前创建 span
		h.Use(tracingMiddleware)
	}

	router.Register(h)

	// 优雅关闭：在单独的 goroutine 中监听关闭信号并调用 Shutdown
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	logger.Logger.Info("HTTP server listening", zap.String("addr", addr))

	h.Spin()

	logger.Logger.Info("Server shutting down gracefully")
}

// newSessionStore redis 模式下会话与锁都放在 redis，多实例共享
func newSessionStore() (cache.SessionStore, cache.SessionLocker) {
	cfg := config.Cfg
	if cfg.UseRedisSessions() {
		breaker := cache.NewCircuitBreaker("redis_sessions", cfg.RedisBreakerFailures, cfg.RedisBreakerReset())
		return cache.NewRedisSessionStore(redis.Client(), cfg.SessionTTL(), breaker),
			cache.NewRedisSessionLocker(redis.Client(), cfg.SessionLockTTL(), cfg.SessionLockWait(), breaker)
	}
	return cache.NewMemorySessionStore(cfg.SessionTTL(), cfg.SessionCleanupInterval()),
		cache.NewLocalSessionLocker(cfg.SessionLockWait())
}
