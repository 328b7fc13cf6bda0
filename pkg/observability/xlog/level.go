package xlog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别，底层复用 slog.Level 的数值语义。
type Level slog.Level

// 支持的日志级别。Fatal 高于 Error，永不被级别过滤。
const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
	LevelFatal = Level(slog.LevelError + 4)
)

// slogLevel 转换为 slog.Level。
func (l Level) slogLevel() slog.Level {
	return slog.Level(l)
}

// String 返回级别名称（小写）。
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return slog.Level(l).String()
	}
}

// ParseLevel 解析级别名称，大小写不敏感。
// 无法识别的名称返回 ErrInvalidLevel。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}
