package middleware

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"MyPetCare/config"
	"MyPetCare/pkg/errors"
	"MyPetCare/pkg/logger"
	"MyPetCare/pkg/response"
)

// RecoverConfig recover 中间件配置
type RecoverConfig struct {
	// 是否启用堆栈追踪
	EnableStackTrace bool
	// 堆栈追踪级别（full, simple, none）
	StackTraceLevel string
	// 生产环境是否返回详细错误
	ExposeDetailsInProduction bool
	// 日志级别（debug, info, warn, error）
	LogLevel string
	// 是否记录请求头。请求体包含用户填写的表单，不记录
	LogRequestHeaders bool
	// 是否在 span 中记录异常（OpenTelemetry）
	RecordInSpan bool
	// 严重错误回调函数（可用于发送告警）
	OnSevereError func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte)
	// 是否是生产环境
	IsProduction bool
}

// NewRecoverConfig 创建 recover 配置
func NewRecoverConfig() RecoverConfig {
	return RecoverConfig{
		EnableStackTrace:          true,
		StackTraceLevel:           "simple",
		ExposeDetailsInProduction: false,
		LogLevel:                  "error",
		LogRequestHeaders:         true,
		RecordInSpan:              true,
		OnSevereError:             nil,
		IsProduction:              config.Cfg.IsProduction(),
	}
}

// RecoverMiddleware 创建 recover 中间件
func RecoverMiddleware() app.HandlerFunc {
	return RecoverMiddlewareWithConfig(NewRecoverConfig())
}

// RecoverMiddlewareWithConfig 带配置的 recover 中间件
func RecoverMiddlewareWithConfig(config RecoverConfig) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				handlePanic(ctx, c, err, config)
			}
		}()

		c.Next(ctx)
	}
}

// handlePanic 处理 panic 并记录日志
func handlePanic(ctx context.Context, c *app.RequestContext, err interface{}, config RecoverConfig) {
	var stack []byte
	if config.EnableStackTrace {
		stack = getStackTrace(config.StackTraceLevel)
	}

	logPanic(ctx, c, err, stack, config)

	if config.OnSevereError != nil && isSeverePanic(err) {
		config.OnSevereError(ctx, c, err, stack)
	}

	writeErrorResponse(ctx, c, err, stack, config)
	c.Abort()
}

// writeErrorResponse 返回错误响应
func writeErrorResponse(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte, config RecoverConfig) {
	exposeDetails := !config.IsProduction || config.ExposeDetailsInProduction

	errDef := errors.Definition{
		Code:    errors.Internal.Code,
		Message: "Internal server error, please try again later",
	}
	if exposeDetails {
		errDef.Message = fmt.Sprintf("Internal error: %v", err)
	}

	if !exposeDetails {
		response.Error(ctx, c, errDef)
		return
	}

	details := map[string]interface{}{
		"panic":     fmt.Sprintf("%v", err),
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if config.EnableStackTrace {
		details["stack"] = string(stack)
	}
	response.ErrorWithDetails(ctx, c, errDef, details)
}

// getStackTrace 获取堆栈追踪
func getStackTrace(level string) []byte {
	var buf bytes.Buffer

	switch level {
	case "full":
		// 完整的堆栈信息
		buf.Write(debug.Stack())
	case "simple":
		// 当前 goroutine 的调用栈
		buf.WriteString("goroutine panic:\n")
		skip := 3 // 跳过 runtime 和 recover 相关的函数
		for i := skip; ; i++ {
			pc, file, line, ok := runtime.Caller(i)
			if !ok {
				break
			}
			fn := runtime.FuncForPC(pc)
			if fn == nil {
				continue
			}
			buf.WriteString(fmt.Sprintf("  %s:%d\n    %s\n", file, line, fn.Name()))
		}
	}

	return buf.Bytes()
}

// getFormattedStack 移除 runtime 相关的冗余堆栈
func getFormattedStack(stack []byte) []byte {
	if len(stack) == 0 {
		return nil
	}

	lines := strings.Split(string(stack), "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Contains(line, "/runtime/") || strings.Contains(line, "src/runtime/") {
			continue
		}
		filtered = append(filtered, line)
	}

	return []byte(strings.Join(filtered, "\n"))
}

// logPanic 记录 panic 日志（包含请求详情）
func logPanic(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte, config RecoverConfig) {
	fields := []zap.Field{
		zap.String("panic", fmt.Sprintf("%v", err)),
		zap.String("path", string(c.Path())),
		zap.String("method", string(c.Method())),
		zap.String("client_ip", c.ClientIP()),
		zap.String("user_agent", string(c.UserAgent())),
		zap.String("request_id", GetRequestID(c)),
	}

	if sessionID := c.Param("session_id"); sessionID != "" {
		fields = append(fields, zap.String("session_id", sessionID))
	}

	if config.LogRequestHeaders {
		headers := make(map[string]string)
		c.Request.Header.VisitAll(func(key, value []byte) {
			headers[string(key)] = string(value)
		})
		fields = append(fields, zap.Any("headers", headers))
	}

	if config.EnableStackTrace {
		fields = append(fields, zap.ByteString("stack", getFormattedStack(stack)))
	}

	if config.RecordInSpan {
		span := trace.SpanFromContext(ctx)
		span.RecordError(fmt.Errorf("panic: %v", err))
		span.SetStatus(codes.Error, "panic recovered")
	}

	switch config.LogLevel {
	case "debug":
		logger.Logger.Debug("[PANIC RECOVERED]", fields...)
	case "info":
		logger.Logger.Info("[PANIC RECOVERED]", fields...)
	case "warn":
		logger.Logger.Warn("[PANIC RECOVERED]", fields...)
	default:
		logger.Logger.Error("[PANIC RECOVERED]", fields...)
	}

	if isSeverePanic(err) {
		logger.Logger.Error("[SEVERE PANIC DETECTED]", fields...)
	}
}

// isSeverePanic 判断是否为严重错误
func isSeverePanic(err interface{}) bool {
	if err == nil {
		return false
	}

	errStr := fmt.Sprintf("%v", err)

	severePatterns := []string{
		"runtime: out of memory",
		"fatal error:",
		"concurrent map writes",
		"concurrent map read and map write",
		"runtime error: makeslice:",
		"all goroutines are asleep - deadlock!",
		"index out of range",
		"slice bounds out of range",
		"unexpected signal",
	}

	for _, pattern := range severePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
