// Package xmetrics 提供线程池的 OpenTelemetry 指标接入。
//
// 两类指标：
//
//   - 事件计数：PoolRecorder 实现 xthpool.Recorder，把任务提交/完成
//     事件记为单调计数器（poolkit.pool.tasks.submitted / completed）
//   - 状态观测：Instrument 注册异步 gauge，按采集周期回调读取池的
//     队列深度与工作中 worker 数（poolkit.pool.queue.depth /
//     poolkit.pool.workers.working）
//
// 使用方式：
//
//	meter := otel.GetMeterProvider().Meter("poolbench")
//	rec, _ := xmetrics.NewPoolRecorder(meter, "bench")
//	pool, _ := xthpool.New(8, 0, xthpool.WithRecorder(rec))
//	reg, _ := xmetrics.Instrument(meter, "bench", pool)
//	defer reg.Unregister()
//
// Recorder 的记录方法非阻塞且并发安全，适合放在任务热路径上。
package xmetrics
