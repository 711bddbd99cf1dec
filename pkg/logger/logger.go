package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzap "github.com/hertz-contrib/logger/zap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"MyPetCare/config"
)

var (
	// Logger 在 Init 之前是 no-op，测试中无需初始化
	Logger   = zap.NewNop()
	logClose io.Closer
)

// Init 构建 zap logger 并同时接管 hertz 的 hlog，服务名、环境与会话存储模式作为固定字段输出。
func Init() {
	cfg := config.Cfg

	level := zap.NewAtomicLevelAt(parseLevel(cfg.LoggerLevel))

	ws, closer, err := openOutput(cfg.LoggerOutputPath)
	if err != nil {
		// 日志不可用时无法继续启动
		panic(err)
	}
	logClose = closer

	hzLogger := hertzzap.NewLogger(
		hertzzap.WithCoreEnc(newEncoder(useConsole(cfg.LoggerFormat, cfg.IsDevelopment()))),
		hertzzap.WithCoreWs(ws),
		hertzzap.WithCoreLevel(level),
		hertzzap.WithZapOptions(
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
			zap.Fields(
				zap.String("service", cfg.ServiceName),
				zap.String("env", cfg.Environment),
				zap.String("session_store", strings.ToLower(cfg.SessionStore)),
			),
		),
	)
	hlog.SetLogger(hzLogger)
	hlog.SetLevel(toHlogLevel(level.Level()))

	Logger = hzLogger.Logger()
	Logger.Info("Logger initialized",
		zap.Stringer("level", level.Level()),
		zap.String("format", cfg.LoggerFormat),
		zap.String("output", cfg.LoggerOutputPath),
	)
}

func Sync() {
	_ = Logger.Sync()

	if logClose != nil {
		_ = logClose.Close()
	}
}

// useConsole 开发环境总是输出彩色文本
func useConsole(format string, development bool) bool {
	return development || strings.EqualFold(format, "text")
}

func newEncoder(console bool) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	if console {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig)
	}

	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// openOutput stdout 之外的路径按追加模式打开，返回的 Closer 在 Sync 时关闭
func openOutput(path string) (zapcore.WriteSyncer, io.Closer, error) {
	if path == "" || strings.EqualFold(path, "stdout") {
		return zapcore.AddSync(os.Stdout), nil, nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %q: %w", path, err)
	}
	return zapcore.AddSync(file), file, nil
}

// parseLevel 无法识别的级别退回 info
func parseLevel(level string) zapcore.Level {
	parsed, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}

func toHlogLevel(level zapcore.Level) hlog.Level {
	switch {
	case level <= zapcore.DebugLevel:
		return hlog.LevelDebug
	case level == zapcore.InfoLevel:
		return hlog.LevelInfo
	case level == zapcore.WarnLevel:
		return hlog.LevelWarn
	case level == zapcore.ErrorLevel:
		return hlog.LevelError
	default:
		return hlog.LevelFatal
	}
}
