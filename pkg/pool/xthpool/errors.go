package xthpool

import "errors"

var (
	// ErrInvalidWorkers 表示 worker 数量无效。
	ErrInvalidWorkers = errors.New("xthpool: invalid worker count")

	// ErrInvalidQueueMax 表示队列上限无效。
	ErrInvalidQueueMax = errors.New("xthpool: invalid queue max")

	// ErrInvalidPrefix 表示名称前缀无效（为空或超过 6 个可见字符）。
	ErrInvalidPrefix = errors.New("xthpool: invalid name prefix")

	// ErrNilTask 表示任务函数为 nil。
	ErrNilTask = errors.New("xthpool: nil task func")

	// ErrInvalidState 表示操作在当前生命周期状态下不合法。
	ErrInvalidState = errors.New("xthpool: invalid lifecycle state")

	// ErrCanceled 表示阻塞中的队列操作被 Shutdown 中断。
	ErrCanceled = errors.New("xthpool: canceled by shutdown")

	// ErrSelfCall 表示 Wait/Shutdown/Destroy 从本池的 worker goroutine 发起。
	ErrSelfCall = errors.New("xthpool: call from own worker")

	// ErrNilPassport 表示诊断入口的 passport 参数为 nil。
	ErrNilPassport = errors.New("xthpool: nil passport")

	// ErrPassportMismatch 表示 passport 未绑定到给定的池。
	ErrPassportMismatch = errors.New("xthpool: passport not bound to this pool")
)
