package xrotate

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotator 可轮转的日志写入器。
type Rotator interface {
	io.WriteCloser

	// Rotate 立即执行一次轮转（例如响应 SIGHUP）。
	Rotate() error
}

// 默认轮转参数。
const (
	defaultMaxSizeMB  = 128
	defaultMaxBackups = 10
	defaultMaxAgeDays = 30
)

// Option 定义 Rotator 可选配置函数类型。
type Option func(*options)

type options struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
	localTime  bool
}

func defaultOptions() options {
	return options{
		maxSizeMB:  defaultMaxSizeMB,
		maxBackups: defaultMaxBackups,
		maxAgeDays: defaultMaxAgeDays,
	}
}

// WithMaxSizeMB 设置单文件大小上限（MB），默认 128。
func WithMaxSizeMB(mb int) Option {
	return func(o *options) {
		o.maxSizeMB = mb
	}
}

// WithMaxBackups 设置轮转后保留的文件份数，0 表示不限，默认 10。
func WithMaxBackups(n int) Option {
	return func(o *options) {
		o.maxBackups = n
	}
}

// WithMaxAgeDays 设置轮转文件的保留天数，0 表示不限，默认 30。
func WithMaxAgeDays(days int) Option {
	return func(o *options) {
		o.maxAgeDays = days
	}
}

// WithCompress 启用轮转文件的 gzip 压缩，默认关闭。
func WithCompress() Option {
	return func(o *options) {
		o.compress = true
	}
}

// WithLocalTime 轮转文件名使用本地时间，默认 UTC。
func WithLocalTime() Option {
	return func(o *options) {
		o.localTime = true
	}
}

// lumberjackRotator Rotator 的 lumberjack 实现。
// lumberjack.Logger 自身并发安全，无需额外加锁。
type lumberjackRotator struct {
	lj *lumberjack.Logger
}

// 编译期接口检查。
var _ Rotator = (*lumberjackRotator)(nil)

// NewLumberjack 创建基于 lumberjack 的 Rotator。
// filename 为空返回 ErrEmptyFilename；参数越界返回对应的校验错误。
// 文件按需惰性创建，构造本身不触碰文件系统。
func NewLumberjack(filename string, opts ...Option) (Rotator, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.maxSizeMB <= 0 {
		return nil, ErrInvalidMaxSize
	}
	if o.maxBackups < 0 {
		return nil, ErrInvalidMaxBackups
	}
	if o.maxAgeDays < 0 {
		return nil, ErrInvalidMaxAge
	}

	return &lumberjackRotator{
		lj: &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    o.maxSizeMB,
			MaxBackups: o.maxBackups,
			MaxAge:     o.maxAgeDays,
			Compress:   o.compress,
			LocalTime:  o.localTime,
		},
	}, nil
}

// Write 写入当前日志文件，超过大小上限时自动轮转。
func (r *lumberjackRotator) Write(p []byte) (int, error) {
	return r.lj.Write(p)
}

// Close 关闭当前日志文件。
func (r *lumberjackRotator) Close() error {
	return r.lj.Close()
}

// Rotate 立即轮转。
func (r *lumberjackRotator) Rotate() error {
	return r.lj.Rotate()
}
