package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// TracingHook Redis 追踪 Hook，同时记录命令数、耗时与会话读取命中率。
// 会话内容属于用户输入，span 中只记录命令名与脱敏后的键名。
type TracingHook struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue

	commandsTotal   metric.Int64Counter
	commandDuration metric.Float64Histogram
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
}

// NewTracingHook 创建追踪 Hook。指标创建失败时对应指标为 nil，不影响命令执行。
func NewTracingHook(serviceName string, db int) *TracingHook {
	meter := otel.Meter(serviceName + ".redis")

	th := &TracingHook{
		tracer: otel.Tracer(serviceName + ".redis"),
		attrs: []attribute.KeyValue{
			semconv.DBSystemRedis,
			semconv.DBRedisDBIndex(db),
			attribute.String("service.name", serviceName),
		},
	}

	th.commandsTotal, _ = meter.Int64Counter(
		"redis.commands.total",
		metric.WithDescription("Total number of Redis commands"),
		metric.WithUnit("{command}"),
	)
	th.commandDuration, _ = meter.Float64Histogram(
		"redis.command.duration",
		metric.WithDescription("Redis command duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5),
	)
	th.cacheHits, _ = meter.Int64Counter(
		"redis.cache.hits",
		metric.WithDescription("Number of cache hits"),
		metric.WithUnit("{hit}"),
	)
	th.cacheMisses, _ = meter.Int64Counter(
		"redis.cache.misses",
		metric.WithDescription("Number of cache misses"),
		metric.WithUnit("{miss}"),
	)

	return th
}

// DialHook 实现 redis.Hook 接口
func (th *TracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

// ProcessHook 实现 redis.Hook 接口
func (th *TracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, span := th.tracer.Start(ctx, cmd.Name(),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(th.attrs...),
		)
		defer span.End()

		span.SetAttributes(semconv.DBOperation(cmd.Name()))
		if keys := extractKeys(cmd.Args()); len(keys) > 0 {
			span.SetAttributes(attribute.StringSlice("redis.keys", keys))
		}

		startTime := time.Now()
		err := next(ctx, cmd)
		duration := time.Since(startTime).Seconds()

		status := "success"
		switch {
		case err == redis.Nil:
			status = "not_found"
			span.SetStatus(codes.Ok, "Key not found")
		case err != nil:
			status = "error"
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		default:
			span.SetStatus(codes.Ok, "Success")
		}

		labels := metric.WithAttributes(
			attribute.String("redis.command", cmd.Name()),
			attribute.String("redis.status", status),
		)
		if th.commandsTotal != nil {
			th.commandsTotal.Add(ctx, 1, labels)
		}
		if th.commandDuration != nil {
			th.commandDuration.Record(ctx, duration, labels)
		}

		if cmd.Name() == "get" || cmd.Name() == "getex" {
			if err == redis.Nil && th.cacheMisses != nil {
				th.cacheMisses.Add(ctx, 1)
			} else if err == nil && th.cacheHits != nil {
				th.cacheHits.Add(ctx, 1)
			}
		}

		return err
	}
}

// ProcessPipelineHook 实现 redis.Hook 接口
func (th *TracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		ctx, span := th.tracer.Start(ctx, "redis.pipeline",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(th.attrs...),
		)
		defer span.End()

		names := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			names = append(names, cmd.Name())
		}
		span.SetAttributes(
			attribute.Int("redis.pipeline.count", len(cmds)),
			attribute.String("redis.pipeline.commands", strings.Join(names, ";")),
		)

		err := next(ctx, cmds)
		if err != nil && err != redis.Nil {
			span.SetStatus(codes.Error, err.Error())
		}

		if th.commandsTotal != nil {
			th.commandsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("redis.operation", "pipeline")))
		}

		return err
	}
}

// extractKeys 提取 Redis 命令中的键名（避免记录敏感值）
func extractKeys(args []interface{}) []string {
	if len(args) < 2 {
		return nil
	}

	// 第一个参数是命令名，只取第二个参数作为键
	key, ok := args[1].(string)
	if !ok {
		return nil
	}
	return []string{sanitizeKey(key)}
}

// maskedKeyPrefixes 这些前缀之后的部分是会话 ID 或客户端 IP
var maskedKeyPrefixes = []string{
	"onboarding:session:",
	"onboarding:lock:",
	"onboarding:rate:",
}

// sanitizeKey 会话、锁与限流键只保留前缀，隐藏会话 ID 和客户端 IP
func sanitizeKey(key string) string {
	for _, prefix := range maskedKeyPrefixes {
		if i := strings.Index(key, prefix); i >= 0 {
			return key[:i+len(prefix)] + "***"
		}
	}

	if strings.Contains(key, "session") {
		parts := strings.Split(key, ":")
		if len(parts) > 1 {
			return strings.Join(parts[:len(parts)-1], ":") + ":***"
		}
		return "***"
	}

	if len(key) > 100 {
		return key[:100] + "..."
	}

	return key
}
