package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/omeyang/poolkit/pkg/lifecycle/xrun"
	"github.com/omeyang/poolkit/pkg/observability/xlog"
	"github.com/omeyang/poolkit/pkg/observability/xmetrics"
	"github.com/omeyang/poolkit/pkg/pool/xthpool"
)

// errScenarioFailed 场景断言失败。
var errScenarioFailed = errors.New("scenario assertion failed")

// newScenarioPool 按环境配置创建池，附带指标接入。
// 返回的 teardown 注销指标回调。各场景以 defer 调用它，因此它在
// Destroy 之后执行；其间的观测回调读到的是已停用池的零值快照。
func newScenarioPool(env *benchEnv, scenario string) (*xthpool.Pool, xlog.Logger, func(), error) {
	runID := uuid.NewString()
	logger := env.logger.With(
		slog.String("scenario", scenario),
		slog.String("run_id", runID),
	)

	meter := otel.GetMeterProvider().Meter("poolbench")
	rec, err := xmetrics.NewPoolRecorder(meter, env.cfg.Pool.NamePrefix)
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []xthpool.Option{
		xthpool.WithNamePrefix(env.cfg.Pool.NamePrefix),
		xthpool.WithLogger(logger),
		xthpool.WithRecorder(rec),
	}
	if env.cfg.Pool.PinThreads {
		opts = append(opts, xthpool.WithPinnedThreads())
	}

	pool, err := xthpool.New(env.cfg.Pool.Workers, env.cfg.Pool.QueueMax, opts...)
	if err != nil {
		return nil, nil, nil, err
	}

	reg, err := xmetrics.Instrument(meter, env.cfg.Pool.NamePrefix, pool)
	if err != nil {
		_ = pool.Shutdown()
		_ = pool.Destroy()
		return nil, nil, nil, err
	}
	return pool, logger, func() { _ = reg.Unregister() }, nil
}

// runSmoke 提交 tasks 个任务，Wait 后校验全部恰好执行一次。
func runSmoke(ctx context.Context, env *benchEnv, tasks int) error {
	pool, logger, teardown, err := newScenarioPool(env, "smoke")
	if err != nil {
		return err
	}
	defer teardown()

	var done atomic.Int64
	start := time.Now()
	for i := range tasks {
		if err := pool.Submit(func(arg any, w *xthpool.Worker) {
			logger.Debug(ctx, "task executed",
				slog.Int("task", arg.(int)),
				slog.String("worker", w.Name()),
			)
			done.Add(1)
		}, i); err != nil {
			return err
		}
	}
	if err := pool.Wait(); err != nil {
		return err
	}

	working, err := pool.NumWorking()
	if err != nil {
		return err
	}
	logger.Info(ctx, "smoke finished",
		slog.Int64("executed", done.Load()),
		slog.Duration("elapsed", time.Since(start)),
	)
	if done.Load() != int64(tasks) || working != 0 {
		return fmt.Errorf("%w: executed=%d want=%d working=%d",
			errScenarioFailed, done.Load(), tasks, working)
	}

	if err := pool.Shutdown(); err != nil {
		return err
	}
	return pool.Destroy()
}

// runBackpressure 单 worker + 容量 2 的队列提交 5 个慢任务，
// 校验提交端被背压阻塞且任务全部执行。
func runBackpressure(ctx context.Context, env *benchEnv) error {
	const (
		tasks     = 5
		queueMax  = 2
		taskDelay = 50 * time.Millisecond
	)
	cfgCopy := *env
	cfgCopy.cfg.Pool.Workers = 1
	cfgCopy.cfg.Pool.QueueMax = queueMax

	pool, logger, teardown, err := newScenarioPool(&cfgCopy, "backpressure")
	if err != nil {
		return err
	}
	defer teardown()

	var done atomic.Int64
	start := time.Now()
	for i := range tasks {
		if err := pool.Submit(func(any, *xthpool.Worker) {
			time.Sleep(taskDelay)
			done.Add(1)
		}, i); err != nil {
			return err
		}
	}
	submitElapsed := time.Since(start)

	if err := pool.Wait(); err != nil {
		return err
	}
	total := time.Since(start)
	logger.Info(ctx, "backpressure finished",
		slog.Duration("submit_elapsed", submitElapsed),
		slog.Duration("total_elapsed", total),
		slog.Int64("executed", done.Load()),
	)

	// 队列容量 2，worker 手上另有一个：第 4 个提交起必须等前面的任务完成腾位
	if done.Load() != tasks || submitElapsed < 2*taskDelay-10*time.Millisecond {
		return fmt.Errorf("%w: executed=%d submit_elapsed=%s",
			errScenarioFailed, done.Load(), submitElapsed)
	}

	if err := pool.Shutdown(); err != nil {
		return err
	}
	return pool.Destroy()
}

// runQuiesce Wait 静默后另一个 goroutine 的提交阻塞，
// Reactivate 解除并执行。
func runQuiesce(ctx context.Context, env *benchEnv) error {
	pool, logger, teardown, err := newScenarioPool(env, "quiesce")
	if err != nil {
		return err
	}
	defer teardown()

	var done atomic.Int64
	for i := range 10 {
		if err := pool.Submit(func(any, *xthpool.Worker) {
			done.Add(1)
		}, i); err != nil {
			return err
		}
	}
	if err := pool.Wait(); err != nil {
		return err
	}

	submitted := make(chan error, 1)
	g, _ := xrun.NewGroup(ctx, xrun.WithName("quiesce"), xrun.WithLogger(logger))
	g.GoWithName("blocked-submitter", func(context.Context) error {
		submitted <- pool.Submit(func(any, *xthpool.Worker) { done.Add(1) }, nil)
		return nil
	})
	g.GoWithName("reactivator", func(context.Context) error {
		// 给提交者时间进入阻塞
		select {
		case err := <-submitted:
			return fmt.Errorf("%w: submit returned during quiesce: %v", errScenarioFailed, err)
		case <-time.After(100 * time.Millisecond):
		}
		return pool.Reactivate()
	})
	if err := g.Wait(); err != nil {
		return err
	}

	select {
	case err := <-submitted:
		if err != nil {
			return err
		}
	case <-time.After(5 * time.Second):
		return fmt.Errorf("%w: submit still blocked after reactivate", errScenarioFailed)
	}
	if err := pool.Wait(); err != nil {
		return err
	}
	logger.Info(ctx, "quiesce finished", slog.Int64("executed", done.Load()))
	if done.Load() != 11 {
		return fmt.Errorf("%w: executed=%d want=11", errScenarioFailed, done.Load())
	}

	if err := pool.Shutdown(); err != nil {
		return err
	}
	return pool.Destroy()
}

// runHookArg 配置共享 hook 参数与析构函数，校验析构恰好一次。
func runHookArg(ctx context.Context, env *benchEnv) error {
	type sharedState struct{ hits atomic.Int64 }

	var destroyed atomic.Int64
	shared := &sharedState{}

	runID := uuid.NewString()
	logger := env.logger.With(
		slog.String("scenario", "hookarg"),
		slog.String("run_id", runID),
	)

	pool, err := xthpool.New(env.cfg.Pool.Workers, env.cfg.Pool.QueueMax,
		xthpool.WithNamePrefix(env.cfg.Pool.NamePrefix),
		xthpool.WithLogger(logger),
		xthpool.WithHookArg(shared, func(any) { destroyed.Add(1) }),
		xthpool.WithStartHook(func(arg any, _ *xthpool.Worker) {
			arg.(*sharedState).hits.Add(1)
		}),
	)
	if err != nil {
		return err
	}

	for range 20 {
		if err := pool.Submit(func(any, *xthpool.Worker) {}, nil); err != nil {
			return err
		}
	}
	if err := pool.Wait(); err != nil {
		return err
	}
	if err := pool.Shutdown(); err != nil {
		return err
	}
	if destroyed.Load() != 0 {
		return fmt.Errorf("%w: destructor ran before destroy", errScenarioFailed)
	}
	if err := pool.Destroy(); err != nil {
		return err
	}

	logger.Info(ctx, "hookarg finished",
		slog.Int64("start_hook_hits", shared.hits.Load()),
		slog.Int64("destructor_runs", destroyed.Load()),
	)
	if destroyed.Load() != 1 {
		return fmt.Errorf("%w: destructor runs=%d want=1", errScenarioFailed, destroyed.Load())
	}
	return nil
}
