package xlog

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// defaultLogger 包级默认 logger。
// 供未显式注入 logger 的组件使用（如 xthpool 的缺省配置）。
var defaultLogger atomic.Pointer[LoggerWithLevel]

func init() {
	l := New()
	defaultLogger.Store(&l)
}

// Default 返回包级默认 logger。
func Default() LoggerWithLevel {
	return *defaultLogger.Load()
}

// SetDefault 替换包级默认 logger。
// 传入 nil 将被忽略。
func SetDefault(l LoggerWithLevel) {
	if l != nil {
		defaultLogger.Store(&l)
	}
}

// Debug 使用默认 logger 记录 Debug 级别日志。
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Debug(ctx, msg, attrs...)
}

// Info 使用默认 logger 记录 Info 级别日志。
func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Info(ctx, msg, attrs...)
}

// Warn 使用默认 logger 记录 Warn 级别日志。
func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Warn(ctx, msg, attrs...)
}

// Error 使用默认 logger 记录 Error 级别日志。
func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Error(ctx, msg, attrs...)
}

// Fatal 使用默认 logger 记录致命日志并终止进程。
func Fatal(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Fatal(ctx, msg, attrs...)
}
