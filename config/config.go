package config

import (
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort     string `env:"SERVER_PORT" envDefault:"8888"`
	ServerHost     string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment    string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName    string `env:"SERVICE_NAME" envDefault:"mypetcare"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"0.1.0"`

	// 引导会话配置
	SessionStore          string `env:"SESSION_STORE" envDefault:"memory"` // memory, redis
	SessionTTLMinutes     int    `env:"SESSION_TTL_MINUTES" envDefault:"60"`
	SessionCleanupMinutes int    `env:"SESSION_CLEANUP_MINUTES" envDefault:"10"` // 仅 memory 生效
	SessionLockWaitMs     int    `env:"SESSION_LOCK_WAIT_MS" envDefault:"2000"`
	SessionLockTTLSeconds int    `env:"SESSION_LOCK_TTL_SECONDS" envDefault:"5"` // 仅 redis 生效

	// 创建会话限流，按 IP 计数，0 表示关闭
	SessionRateLimit        int `env:"SESSION_RATE_LIMIT" envDefault:"30"`
	SessionRateLimitSeconds int `env:"SESSION_RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`

	// Redis 熔断：连续失败次数达到阈值后熔断，冷却后半开试探
	RedisBreakerFailures     int `env:"REDIS_BREAKER_FAILURES" envDefault:"5"`
	RedisBreakerResetSeconds int `env:"REDIS_BREAKER_RESET_SECONDS" envDefault:"30"`

	// Redis 配置，SESSION_STORE=redis 时使用
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"mpc"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 链路追踪与指标
	OTelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelSampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"0.1"`
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	validateConfig()
}

func validateConfig() {
	switch strings.ToLower(Cfg.SessionStore) {
	case "memory", "redis":
	default:
		log.Fatalf("SESSION_STORE must be memory or redis, got %q", Cfg.SessionStore)
	}

	if Cfg.SessionTTLMinutes <= 0 {
		log.Fatal("SESSION_TTL_MINUTES must be positive")
	}

	if Cfg.SessionLockWaitMs <= 0 || Cfg.SessionLockTTLSeconds <= 0 {
		log.Fatal("SESSION_LOCK_WAIT_MS and SESSION_LOCK_TTL_SECONDS must be positive")
	}

	if Cfg.SessionRateLimit < 0 || Cfg.SessionRateLimitSeconds <= 0 {
		log.Fatal("SESSION_RATE_LIMIT must not be negative and its window must be positive")
	}

	if Cfg.SnowflakeMachineID < 0 || Cfg.SnowflakeMachineID > 31 ||
		Cfg.SnowflakeDataCenter < 0 || Cfg.SnowflakeDataCenter > 31 {
		log.Fatal("SNOWFLAKE_MACHINE_ID and SNOWFLAKE_DATACENTER_ID must be within 0~31")
	}

	if Cfg.OTelEnabled && Cfg.OTelEndpoint == "" {
		log.Printf("WARN: OTEL_ENABLED is set but OTEL_EXPORTER_OTLP_ENDPOINT is empty, tracing will not work")
	}
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c *Config) SessionCleanupInterval() time.Duration {
	if c.SessionCleanupMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.SessionCleanupMinutes) * time.Minute
}

func (c *Config) SessionLockWait() time.Duration {
	return time.Duration(c.SessionLockWaitMs) * time.Millisecond
}

func (c *Config) SessionLockTTL() time.Duration {
	return time.Duration(c.SessionLockTTLSeconds) * time.Second
}

func (c *Config) SessionRateLimitWindow() time.Duration {
	return time.Duration(c.SessionRateLimitSeconds) * time.Second
}

func (c *Config) RedisBreakerReset() time.Duration {
	if c.RedisBreakerResetSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RedisBreakerResetSeconds) * time.Second
}

func (c *Config) UseRedisSessions() bool {
	return strings.EqualFold(c.SessionStore, "redis")
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
