// Package e2e 跨包验证池的完整生命周期：配置加载 → 池运行 →
// 指标采集 → 静默/恢复 → 关停/销毁 → passport 误用拦截。
package e2e

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/poolkit/pkg/config/xconf"
	"github.com/omeyang/poolkit/pkg/observability/xlog"
	"github.com/omeyang/poolkit/pkg/observability/xmetrics"
	"github.com/omeyang/poolkit/pkg/pool/xpassport"
	"github.com/omeyang/poolkit/pkg/pool/xthpool"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quiet() xlog.LoggerWithLevel {
	return xlog.New(xlog.WithHandler(slog.NewTextHandler(io.Discard, nil)))
}

// TestFullLifecycle 配置驱动的完整生命周期，含指标断言。
func TestFullLifecycle(t *testing.T) {
	cfg, err := xconf.NewFromBytes([]byte(`
pool:
  name_prefix: e2e
  workers: 4
  queue_max: 16
`), xconf.FormatYAML)
	require.NoError(t, err)

	var pc struct {
		NamePrefix string `koanf:"name_prefix"`
		Workers    int    `koanf:"workers"`
		QueueMax   int    `koanf:"queue_max"`
	}
	require.NoError(t, cfg.Unmarshal("pool", &pc))

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	meter := provider.Meter("e2e")

	rec, err := xmetrics.NewPoolRecorder(meter, pc.NamePrefix)
	require.NoError(t, err)

	pool, err := xthpool.New(pc.Workers, pc.QueueMax,
		xthpool.WithNamePrefix(pc.NamePrefix),
		xthpool.WithLogger(quiet()),
		xthpool.WithRecorder(rec),
	)
	require.NoError(t, err)

	reg, err := xmetrics.Instrument(meter, pc.NamePrefix, pool)
	require.NoError(t, err)

	// 并发提交
	var done atomic.Int64
	var g errgroup.Group
	const submitters, perSubmitter = 4, 25
	for range submitters {
		g.Go(func() error {
			for range perSubmitter {
				if err := pool.Submit(func(any, *xthpool.Worker) {
					done.Add(1)
				}, nil); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.NoError(t, pool.Wait())
	assert.Equal(t, int64(submitters*perSubmitter), done.Load())

	// 计数器与观测快照
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	metrics := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			metrics[m.Name] = m
		}
	}
	submitted := metrics["poolkit.pool.tasks.submitted"].Data.(metricdata.Sum[int64])
	assert.Equal(t, int64(submitters*perSubmitter), submitted.DataPoints[0].Value)
	depth := metrics["poolkit.pool.queue.depth"].Data.(metricdata.Gauge[int64])
	assert.Equal(t, int64(0), depth.DataPoints[0].Value, "Wait 之后队列深度为 0")

	require.NoError(t, reg.Unregister())
	require.NoError(t, pool.Reactivate())
	require.NoError(t, pool.Shutdown())
	require.NoError(t, pool.Destroy())
}

// TestPassportMisuseAfterDestroy 用户自持 passport 的 UAF 拦截。
func TestPassportMisuseAfterDestroy(t *testing.T) {
	pp := xpassport.New()
	pool, err := xthpool.New(2, 0,
		xthpool.WithPassport(pp),
		xthpool.WithLogger(quiet()),
	)
	require.NoError(t, err)

	var ran atomic.Int64
	require.NoError(t, xthpool.SubmitWithPassport(pool, pp, func(any, *xthpool.Worker) {
		ran.Add(1)
	}, nil))
	require.NoError(t, xthpool.WaitWithPassport(pool, pp))
	require.NoError(t, xthpool.ShutdownWithPassport(pool, pp))
	require.NoError(t, xthpool.DestroyWithPassport(pool, pp))
	assert.Equal(t, int64(1), ran.Load())
	assert.Equal(t, xpassport.StateDestroyed, pp.State())

	// 销毁后的每一个门控调用都返回错误，passport 在途计数归零
	assert.ErrorIs(t,
		xthpool.SubmitWithPassport(pool, pp, func(any, *xthpool.Worker) {}, nil),
		xthpool.ErrInvalidState)
	assert.ErrorIs(t, xthpool.WaitWithPassport(pool, pp), xthpool.ErrInvalidState)
	assert.Equal(t, int64(0), pp.InFlight())
	require.NoError(t, pp.Close())
}

// TestManyPoolsCoexist 实例作用域状态：多个池互不干扰。
func TestManyPoolsCoexist(t *testing.T) {
	const pools = 4
	counts := make([]atomic.Int64, pools)
	ps := make([]*xthpool.Pool, pools)

	for i := range pools {
		p, err := xthpool.New(2, 4,
			xthpool.WithNamePrefix("m"),
			xthpool.WithLogger(quiet()),
		)
		require.NoError(t, err)
		ps[i] = p
	}
	for i, p := range ps {
		for range 10 {
			require.NoError(t, p.Submit(func(any, *xthpool.Worker) {
				counts[i].Add(1)
			}, nil))
		}
	}
	for i, p := range ps {
		require.NoError(t, p.Wait())
		assert.Equal(t, int64(10), counts[i].Load())
	}

	// 销毁一个池不影响其余
	require.NoError(t, ps[0].Destroy())
	require.NoError(t, ps[1].Reactivate())
	var extra atomic.Int64
	require.NoError(t, ps[1].Submit(func(any, *xthpool.Worker) { extra.Add(1) }, nil))
	require.NoError(t, ps[1].Wait())
	assert.Equal(t, int64(1), extra.Load())

	for _, p := range ps[1:] {
		require.NoError(t, p.Destroy())
	}
}

// TestShutdownUnblocksEverything Shutdown 解除所有等待者。
func TestShutdownUnblocksEverything(t *testing.T) {
	pool, err := xthpool.New(1, 1, xthpool.WithLogger(quiet()))
	require.NoError(t, err)

	release := make(chan struct{})
	require.NoError(t, pool.Submit(func(any, *xthpool.Worker) { <-release }, nil))
	require.NoError(t, pool.Submit(func(any, *xthpool.Worker) {}, nil)) // 占满队列

	results := make(chan error, 2)
	go func() { // 满队列上阻塞的提交者
		results <- pool.Submit(func(any, *xthpool.Worker) {}, nil)
	}()
	go func() { // 等待空闲的 Wait 调用者
		results <- pool.Wait()
	}()

	time.Sleep(100 * time.Millisecond) // 让两个调用者进入阻塞
	close(release)
	require.NoError(t, pool.Shutdown())

	for range 2 {
		select {
		case err := <-results:
			if err != nil {
				assert.ErrorIs(t, err, xthpool.ErrCanceled)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Shutdown 未解除全部等待者")
		}
	}
	require.NoError(t, pool.Destroy())
}
