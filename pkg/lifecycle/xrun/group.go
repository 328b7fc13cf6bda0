package xrun

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/poolkit/pkg/observability/xlog"
)

// Group 管理一组并发服务。
//
// Go、GoWithName、Cancel 可从多个 goroutine 并发调用；Wait 只应调用一次。
type Group struct {
	eg     *errgroup.Group
	ctx    context.Context
	cancel context.CancelCauseFunc
	opts   options
}

// Option 定义 Group 配置选项。
type Option func(*options)

type options struct {
	name   string
	logger xlog.Logger
}

func defaultOptions() options {
	return options{
		logger: xlog.Default(),
	}
}

// WithName 设置组名，出现在服务启停日志中。
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger 设置日志记录器，默认 xlog.Default()。
// 传入 nil 将被忽略。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewGroup 创建 Group 和派生 context。
// 任一服务返回错误时派生 context 被取消。
// nil ctx 归一化为 context.Background()。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	return &Group{eg: eg, ctx: egCtx, cancel: cancel, opts: o}, egCtx
}

// Go 启动一个服务 goroutine。
// fn 应监听 ctx.Done() 以响应取消；返回非 nil 错误会触发组内取消。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 与 Go 相同，并记录服务启停日志。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		g.opts.logger.Debug(g.ctx, "service starting",
			slog.String("group", g.opts.name),
			slog.String("service", name),
		)
		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			g.opts.logger.Warn(g.ctx, "service exited with error",
				slog.String("group", g.opts.name),
				slog.String("service", name),
				slog.Any("error", err),
			)
		} else {
			g.opts.logger.Debug(g.ctx, "service stopped",
				slog.String("group", g.opts.name),
				slog.String("service", name),
			)
		}
		return err
	})
}

// Cancel 以给定原因取消整组服务。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Wait 等待所有服务退出，返回第一个非 nil 错误。
// 错误为 context.Canceled 时优先返回 context.Cause，保留
// Cancel(cause) 或信号处理设置的退出原因。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	if errors.Is(err, context.Canceled) {
		if cause := context.Cause(g.ctx); cause != nil && !errors.Is(cause, context.Canceled) {
			return cause
		}
		return nil
	}
	return err
}
