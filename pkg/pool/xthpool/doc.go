// Package xthpool 提供实例作用域的固定规模 worker 线程池。
//
// Pool 由固定数量的常驻 worker 组成，从共享的有界 FIFO 队列消费
// 不透明的工作单元（TaskFunc + 参数）。与常见的 channel 池不同，
// xthpool 提供完整的生命周期状态机与静默/恢复机制：
//
//   - 生命周期：Alive → ShuttingDown → Shutdown → Destroying → Destroyed，
//     以 CAS 在并发通行证（xpassport.Passport）上推进
//   - 有界队列：队列满时 Submit 阻塞（而非丢弃），Shutdown 时带
//     ErrCanceled 解除阻塞
//   - 静默/恢复：Wait 阻塞直到队列排空且所有 worker 空闲，随后暂停
//     派发；Reactivate 恢复
//   - 钩子：每个 worker 进入/退出时各执行一次 start/end hook；共享的
//     hook 参数通过引用计数保证析构函数恰好执行一次
//   - 每 worker 上下文槽：worker 自有的不透明指针，仅限运行在该
//     worker 上的代码访问
//   - 诊断入口（*WithPassport）：调用方自持 Passport 时，池销毁后的
//     误用调用会被安全拦截，不触碰池内部状态
//
// # 同步核心
//
// 队列受单一互斥锁保护，配两个条件变量（取任务/放任务），外加一对
// 独立的空闲互斥锁与空闲条件变量供 Wait 使用。条件变量一律广播：
// 静默解除后两类等待者混在同一条件变量上，单播可能被同角色的竞争者
// 吞掉。唯一的双锁临界区在 Wait（先空闲锁后队列锁），其余路径均单锁。
//
// # 禁止事项
//
//   - Wait、Shutdown、Destroy 不得从本池的 worker goroutine
//     （任务或钩子内部）调用，违反时返回 ErrSelfCall 而非死锁
//   - Wait 之后未 Reactivate 再次 Wait 可能永久阻塞（池已静默，
//     队列不再排空）
//
// # 使用方式
//
//	pool, err := xthpool.New(4, 0, xthpool.WithNamePrefix("work"))
//	if err != nil { ... }
//	_ = pool.Submit(func(arg any, w *xthpool.Worker) { ... }, payload)
//	_ = pool.Wait()
//	_ = pool.Shutdown()
//	_ = pool.Destroy()
package xthpool
