// Package xrun 基于 errgroup 管理一组并发服务的运行与协调关闭。
//
// 当任一服务返回错误或 context 被取消时，组内所有服务收到取消信号。
// 驱动程序用它协调提交者 goroutine 与信号处理：
//
//	g, ctx := xrun.NewGroup(ctx, xrun.WithName("poolbench"))
//	g.Go(xrun.SignalHandler())
//	g.GoWithName("submitter", func(ctx context.Context) error {
//	    return submitAll(ctx, pool)
//	})
//	if err := g.Wait(); err != nil && !errors.Is(err, xrun.ErrSignal) {
//	    return err
//	}
package xrun
