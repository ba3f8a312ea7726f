package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"catalog-keeper/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	defaultLogger *zap.SugaredLogger
	level         = zap.NewAtomicLevelAt(zapcore.WarnLevel)
)

// GetLogLevelFromString 将字符串转换为日志级别
func GetLogLevelFromString(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel // 默认级别
	}
}

/**
 * Initialize the logging system
 * @param {*config.LogConfig} cfg - Logging configuration
 * @param {bool} isServerMode - true for the HTTP server, which also logs to stdout when logging to a file
 * @description
 * - "console" or empty path logs to stderr only
 * - A file path logs through a lumberjack rotating writer
 * - Format "json" selects the JSON encoder, anything else the console encoder
 */
func InitLogger(cfg *config.LogConfig, isServerMode bool) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	level.SetLevel(GetLogLevelFromString(cfg.Level))

	var cores []zapcore.Core
	if cfg.Path == "console" || cfg.Path == "" {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level))
	} else {
		if writer := setupLogFileOutput(cfg); writer != nil {
			cores = append(cores, zapcore.NewCore(encoder, writer, level))
		}
		// 服务器模式或日志文件不可用时，同时输出到控制台
		if isServerMode || len(cores) == 0 {
			cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
		}
	}

	defaultLogger = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// setupLogFileOutput 设置日志文件输出
func setupLogFileOutput(cfg *config.LogConfig) zapcore.WriteSyncer {
	// 确保日志目录存在
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "创建日志目录失败: %v\n", err)
		return nil
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
	})
}

// SetLevel changes the level of the running logger.
func SetLevel(s string) {
	level.SetLevel(GetLogLevelFromString(s))
}

// L returns the underlying zap logger, a no-op logger before InitLogger.
func L() *zap.Logger {
	if defaultLogger == nil {
		return zap.NewNop()
	}
	return defaultLogger.Desugar()
}

// Sync 刷新缓冲日志
func Sync() {
	if defaultLogger != nil {
		_ = defaultLogger.Sync()
	}
}

// Debug 输出调试日志
func Debug(v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Debug(v...)
	}
}

// Debugf 输出格式化调试日志
func Debugf(format string, v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Debugf(format, v...)
	}
}

// Info 输出信息日志
func Info(v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Info(v...)
	}
}

// Infof 输出格式化信息日志
func Infof(format string, v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Infof(format, v...)
	}
}

// Warn 输出警告日志
func Warn(v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Warn(v...)
	}
}

// Warnf 输出格式化警告日志
func Warnf(format string, v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Warnf(format, v...)
	}
}

// Error 输出错误日志
func Error(v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Error(v...)
	}
}

// Errorf 输出格式化错误日志
func Errorf(format string, v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Errorf(format, v...)
	}
}

// Fatal 输出致命错误日志并退出程序
func Fatal(v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Fatal(v...)
	} else {
		// 在日志系统未初始化时，使用标准错误输出
		fmt.Fprintln(os.Stderr, append([]interface{}{"FATAL:"}, v...)...)
		os.Exit(1)
	}
}

// Fatalf 输出格式化致命错误日志并退出程序
func Fatalf(format string, v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Fatalf(format, v...)
	} else {
		// 在日志系统未初始化时，使用标准错误输出
		fmt.Fprintf(os.Stderr, "FATAL: "+format+"\n", v...)
		os.Exit(1)
	}
}
