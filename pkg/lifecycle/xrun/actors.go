package xrun

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// DefaultSignals 返回默认监听的系统信号列表。
// 每次调用返回新的切片，调用者可安全修改。
func DefaultSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
}

// SignalHandler 返回一个监听系统信号的服务函数。
// 收到信号时返回 *SignalError（触发组内取消）；ctx 取消时返回
// ctx.Err()。不传信号时使用 DefaultSignals。
//
// 用法：
//
//	g.Go(xrun.SignalHandler())
func SignalHandler(signals ...os.Signal) func(ctx context.Context) error {
	if len(signals) == 0 {
		signals = DefaultSignals()
	}
	return func(ctx context.Context) error {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, signals...)
		defer signal.Stop(ch)

		select {
		case sig := <-ch:
			return &SignalError{Signal: sig}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
