package xlog

import (
	"io"
	"log/slog"
	"os"
)

// Format 输出格式。
type Format string

// 支持的输出格式。
const (
	// FormatText 人类可读的 text 格式。
	FormatText Format = "text"

	// FormatJSON 结构化 JSON 格式（推荐用于日志采集）。
	FormatJSON Format = "json"
)

// Option 定义 Logger 构建选项。
type Option func(*options)

type options struct {
	writer    io.Writer
	format    Format
	level     Level
	addSource bool
	handler   slog.Handler
}

func defaultOptions() options {
	return options{
		writer: os.Stdout,
		format: FormatText,
		level:  LevelInfo,
	}
}

// WithWriter 设置输出 Writer，默认 os.Stdout。
// 传入 nil 将被忽略，保持使用默认值。
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithFormat 设置输出格式，默认 FormatText。
// 无法识别的格式将被忽略。
func WithFormat(f Format) Option {
	return func(o *options) {
		if f == FormatText || f == FormatJSON {
			o.format = f
		}
	}
}

// WithLevel 设置初始级别，默认 LevelInfo。
// 构建后仍可通过 SetLevel 动态调整。
func WithLevel(level Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithSource 启用源码位置记录。
// runtime 调用有不可忽略的开销，仅建议在排障时启用。
func WithSource() Option {
	return func(o *options) {
		o.addSource = true
	}
}

// WithHandler 直接指定 slog.Handler，覆盖 writer/format/source 选项。
// 级别过滤仍由 xlog 的 levelVar 控制，要求传入的 Handler
// 自身不做级别过滤（或过滤级别不高于期望级别）。
func WithHandler(h slog.Handler) Option {
	return func(o *options) {
		if h != nil {
			o.handler = h
		}
	}
}

// New 构建 LoggerWithLevel。
//
// 示例：
//
//	logger := xlog.New(
//	    xlog.WithFormat(xlog.FormatJSON),
//	    xlog.WithLevel(xlog.LevelDebug),
//	)
func New(opts ...Option) LoggerWithLevel {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(o.level.slogLevel())

	handler := o.handler
	if handler == nil {
		hopts := &slog.HandlerOptions{
			Level:     levelVar,
			AddSource: o.addSource,
		}
		if o.format == FormatJSON {
			handler = slog.NewJSONHandler(o.writer, hopts)
		} else {
			handler = slog.NewTextHandler(o.writer, hopts)
		}
	}

	return &xlogger{
		handler:  handler,
		levelVar: levelVar,
	}
}
