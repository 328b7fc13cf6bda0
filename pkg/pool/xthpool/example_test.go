package xthpool_test

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/omeyang/poolkit/pkg/observability/xlog"
	"github.com/omeyang/poolkit/pkg/pool/xpassport"
	"github.com/omeyang/poolkit/pkg/pool/xthpool"
)

// quiet 示例中静默生命周期日志，保证输出可比对。
func quiet() xlog.LoggerWithLevel {
	return xlog.New(xlog.WithHandler(slog.NewTextHandler(io.Discard, nil)))
}

func Example() {
	pool, err := xthpool.New(4, 0,
		xthpool.WithNamePrefix("ex"),
		xthpool.WithLogger(quiet()),
	)
	if err != nil {
		panic(err)
	}

	var sum atomic.Int64
	for i := 1; i <= 10; i++ {
		if err := pool.Submit(func(arg any, _ *xthpool.Worker) {
			sum.Add(int64(arg.(int)))
		}, i); err != nil {
			panic(err)
		}
	}

	// 等待队列排空且所有 worker 空闲（随后池进入静默状态）
	if err := pool.Wait(); err != nil {
		panic(err)
	}
	fmt.Println("sum:", sum.Load())

	if err := pool.Shutdown(); err != nil {
		panic(err)
	}
	if err := pool.Destroy(); err != nil {
		panic(err)
	}
	// Output:
	// sum: 55
}

func ExamplePool_Reactivate() {
	pool, err := xthpool.New(2, 0, xthpool.WithLogger(quiet()))
	if err != nil {
		panic(err)
	}

	_ = pool.Submit(func(any, *xthpool.Worker) {}, nil)
	_ = pool.Wait() // 静默：提交与派发暂停
	_ = pool.Reactivate()

	var ran atomic.Bool
	_ = pool.Submit(func(any, *xthpool.Worker) { ran.Store(true) }, nil)
	_ = pool.Wait()
	fmt.Println("ran:", ran.Load())

	_ = pool.Destroy()
	// Output:
	// ran: true
}

func ExampleSubmitWithPassport() {
	// 调用方自持 passport：池销毁后的误用会被安全拦截
	xlog.SetDefault(quiet()) // passport 门走包级默认 logger
	pp := xpassport.New()
	pool, err := xthpool.New(2, 0,
		xthpool.WithPassport(pp),
		xthpool.WithLogger(quiet()),
	)
	if err != nil {
		panic(err)
	}

	_ = pool.Shutdown()
	_ = pool.Destroy()

	err = xthpool.SubmitWithPassport(pool, pp, func(any, *xthpool.Worker) {}, nil)
	fmt.Println("after destroy:", err != nil)
	// Output:
	// after destroy: true
}

func ExampleWithHookArg() {
	conn := "shared resource"
	pool, err := xthpool.New(3, 0,
		xthpool.WithLogger(quiet()),
		xthpool.WithHookArg(conn, func(arg any) {
			fmt.Println("destructor:", arg)
		}),
	)
	if err != nil {
		panic(err)
	}

	_ = pool.Shutdown()
	_ = pool.Destroy() // 所有 worker 退出后析构函数恰好执行一次
	// Output:
	// destructor: shared resource
}
