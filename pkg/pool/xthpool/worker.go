package xthpool

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"
	"runtime/debug"
	"strconv"
	"sync/atomic"

	"github.com/omeyang/poolkit/pkg/util/xsys"
)

// Worker 一个常驻 worker 及其元数据。
//
// Worker 句柄只在任务与钩子的调用参数中出现，即只交给运行在该 worker
// 上的代码。上下文槽因此无需同步：除持有句柄的代码外没有访问者，
// 顺序保证仅限该 worker 自身的程序序。
type Worker struct {
	id   int
	name string
	pool *Pool

	// ctxSlot 用户管理的不透明上下文槽，核心不解释其内容。
	ctxSlot any

	// holdsHookRef 该 worker 是否仍持有共享 hook 参数的一份引用。
	// worker 在任务/钩子内归还，或由 Destroy 在 worker 退出后归还，
	// 两条路径以 CAS 串行化。
	holdsHookRef atomic.Bool
}

// ID 返回 worker 的序号（0 起始，稠密）。
func (w *Worker) ID() int {
	return w.id
}

// Name 返回 worker 的显示名（"<prefix>-<hex_id>"）。
func (w *Worker) Name() string {
	return w.name
}

// Context 返回上下文槽的当前值；未设置时为 nil。
func (w *Worker) Context() any {
	return w.ctxSlot
}

// SetContext 设置上下文槽。
func (w *Worker) SetContext(v any) {
	w.ctxSlot = v
}

// UnsetContext 清空上下文槽。
func (w *Worker) UnsetContext() {
	w.ctxSlot = nil
}

// UnrefHookArg 提前归还该 worker 持有的共享 hook 参数引用。
// 未配置析构函数、或引用已归还时为空操作。计数归零时在调用者
// goroutine 上执行析构函数。
func (w *Worker) UnrefHookArg() {
	if w.pool == nil || w.pool.hookDtor == nil {
		return
	}
	if w.holdsHookRef.CompareAndSwap(true, false) {
		w.pool.dropHookRef()
	}
}

// releaseMeta 销毁 worker 元数据时归还仍持有的 hook 参数引用。
// 仅由 Pool.Destroy 在该 worker 线程退出后调用。
func (w *Worker) releaseMeta() {
	if w.pool != nil && w.pool.hookDtor != nil && w.holdsHookRef.CompareAndSwap(true, false) {
		w.pool.dropHookRef()
	}
}

// run worker 主循环。
//
// 进入：登记 goroutine id（供自调用检测）、递增存活计数、执行 start
// hook。循环：取任务（可能阻塞）、执行、任务计数归零时广播空闲条件。
// 退出：执行 end hook、注销 goroutine id、递减存活计数。
func (w *Worker) run() {
	p := w.pool

	if p.pin {
		// 锁定 OS 线程后命名才有意义。命名失败是尽力而为，不影响运行。
		runtime.LockOSThread()
		if err := xsys.SetThreadName(w.name); err != nil {
			p.logger.Debug(context.Background(), "thread naming failed",
				slog.String("worker", w.name), slog.Any("error", err))
		}
	}

	gid := goid()
	p.trackWorker(gid)
	p.numAlive.Add(1)

	if p.startHook != nil {
		p.startHook(p.hookArg, w)
	}

	for p.keepalive.Load() {
		j := p.getJob()
		if j == nil {
			break
		}
		w.execute(j)
	}

	if p.endHook != nil {
		p.endHook(w)
	}

	p.untrackWorker(gid)
	p.numAlive.Add(-1)
}

// execute 执行一个已取出的任务。
//
// numWorking 已在 getJob 的队列锁内递增（保证 Wait 的快照一致）；
// 这里只负责递减。递减到 0 时在空闲锁内广播：持有空闲锁观察到
// "队列空且无人工作" 的等待者不会错过唤醒。panic 被捕获并记录，
// 单个任务失败不拖垮 worker。
func (w *Worker) execute(j *job) {
	p := w.pool
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(context.Background(), "task panic recovered",
				slog.String("worker", w.name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
		if p.recorder != nil {
			p.recorder.TaskCompleted()
		}
		if p.numWorking.Add(-1) == 0 {
			p.idleMu.Lock()
			p.idleCond.Broadcast()
			p.idleMu.Unlock()
		}
	}()
	j.fn(j.arg, w)
}

// goid 返回当前 goroutine 的 id。
//
// Go 有意不提供 goroutine 本地存储；自调用检测（防止任务内
// Wait/Shutdown/Destroy 死锁）需要辨认调用者身份，这里解析
// runtime.Stack 首行 "goroutine N [...]"。仅在生命周期入口和
// worker 启停时调用，不在任务热路径上。
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(s, ' '); i > 0 {
		if id, err := strconv.ParseInt(string(s[:i]), 10, 64); err == nil {
			return id
		}
	}
	return -1
}
