// Package logger provides the process-wide structured logger.
//
// It wraps go.uber.org/zap. Development builds log colored console output at
// debug level; production (ENV=production) logs JSON at info level. When
// LOG_FILE is set, output is also written to a size-rotated file.
package logger

import (
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// InitLogger builds the global logger from the environment. Only the first
// call has effect.
//
// Environment:
//   - ENV: development (default) or production
//   - LOG_LEVEL: debug, info, warn, error (default depends on ENV)
//   - LOG_FILE: optional path of a rotated log file
//   - LOG_FILE_MAX_MB: rotation size (default 100)
func InitLogger() error {
	var initErr error
	once.Do(func() {
		logger, initErr = build(getEnv("ENV", "development"))
	})
	return initErr
}

func build(env string) (*zap.Logger, error) {
	var encCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	defaultLevel := "debug"

	if env == "production" {
		defaultLevel = "info"
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encCfg.EncodeCaller = zapcore.ShortCallerEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.999")
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encCfg.EncodeCaller = zapcore.ShortCallerEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	level, err := zapcore.ParseLevel(getEnv("LOG_LEVEL", defaultLevel))
	if err != nil {
		level = zapcore.InfoLevel
	}
	atomicLevel := zap.NewAtomicLevelAt(level)

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if path := os.Getenv("LOG_FILE"); path != "" {
		maxMB, convErr := strconv.Atoi(getEnv("LOG_FILE_MAX_MB", "100"))
		if convErr != nil || maxMB <= 0 {
			maxMB = 100
		}
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxMB,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), atomicLevel)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// SetLogger replaces the global logger. Tests use it with zap.NewNop or an
// observer core.
func SetLogger(l *zap.Logger) {
	once.Do(func() {})
	logger = l
}

// GetLogger returns the global logger, initializing it on first use.
func GetLogger() *zap.Logger {
	if logger == nil {
		if err := InitLogger(); err != nil || logger == nil {
			logger = zap.NewNop()
		}
	}
	return logger
}

func Sync() error {
	if logger != nil {
		return logger.Sync()
	}
	return nil
}

func Debug(msg string, fields ...zap.Field) { GetLogger().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { GetLogger().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { GetLogger().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { GetLogger().Error(msg, fields...) }

func Fatal(msg string, fields ...zap.Field) { GetLogger().Fatal(msg, fields...) }

// With returns a child logger carrying the given fields.
func With(fields ...zap.Field) *zap.Logger {
	return GetLogger().With(fields...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
