package xlog

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// 编译时接口检查
var (
	_ Logger          = (*xlogger)(nil)
	_ Leveler         = (*xlogger)(nil)
	_ LoggerWithLevel = (*xlogger)(nil)
)

// osExit 进程终止函数，测试中可替换以验证 Fatal 路径。
// 生产代码不得修改。
var osExit = os.Exit

// xlogger Logger 接口的实现。
type xlogger struct {
	handler  slog.Handler
	levelVar *slog.LevelVar
}

// log 通用日志方法。Fatal 级别永不过滤（LevelFatal 高于所有可设置级别）。
func (l *xlogger) log(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if level.slogLevel() < l.levelVar.Level() || !l.handler.Enabled(ctx, level.slogLevel()) {
		return
	}
	r := slog.NewRecord(time.Now(), level.slogLevel(), msg, 0)
	r.AddAttrs(attrs...)
	// Handler 写入失败无处上报，静默丢弃；日志子系统遵循"失败不扩散"。
	_ = l.handler.Handle(ctx, r)
}

// Debug 记录 Debug 级别日志。
func (l *xlogger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs)
}

// Info 记录 Info 级别日志。
func (l *xlogger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs)
}

// Warn 记录 Warn 级别日志。
func (l *xlogger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs)
}

// Error 记录 Error 级别日志。
func (l *xlogger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs)
}

// Fatal 记录致命日志并终止进程。
func (l *xlogger) Fatal(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelFatal, msg, attrs)
	osExit(1)
}

// With 返回带额外属性的派生 Logger。
// 派生 logger 与父级共享 levelVar，动态级别变更同步生效。
func (l *xlogger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	return &xlogger{
		handler:  l.handler.WithAttrs(attrs),
		levelVar: l.levelVar,
	}
}

// SetLevel 动态设置日志级别。
func (l *xlogger) SetLevel(level Level) {
	l.levelVar.Set(level.slogLevel())
}

// GetLevel 获取当前日志级别。
func (l *xlogger) GetLevel() Level {
	return Level(l.levelVar.Level())
}

// Enabled 检查指定级别是否启用。
func (l *xlogger) Enabled(ctx context.Context, level Level) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	if level.slogLevel() < l.levelVar.Level() {
		return false
	}
	return l.handler.Enabled(ctx, level.slogLevel())
}
