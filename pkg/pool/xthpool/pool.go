package xthpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/omeyang/poolkit/pkg/observability/xlog"
	"github.com/omeyang/poolkit/pkg/pool/xpassport"
)

const (
	maxWorkers   = 1 << 16 // 65536
	maxQueueLen  = 1 << 24 // 16777216
	maxPrefixLen = 6

	// pollInterval 生命周期入口轮询原子计数的间隔。
	// 计数本身是原子量且这些循环都是冷路径，轮询比再引入一对
	// 条件变量更简单。
	pollInterval = 100 * time.Microsecond
)

// Pool 线程池实例。所有状态都是实例作用域的，多个池可以共存。
//
// Pool 独占其 worker、队列与全部同步原语。Passport 在池和（可选的）
// 调用方之间共享：调用方持有的 passport 必须比池活得久。
type Pool struct {
	prefix     string
	numThreads int // 初始化时一次写入，之后只读
	workers    []*Worker

	numAlive   atomic.Int32
	numWorking atomic.Int32

	qmu     sync.Mutex
	queue   jobQueue
	getCond *sync.Cond // 队列非空 / 池恢复派发
	putCond *sync.Cond // 队列有空位 / 池恢复接收

	idleMu   sync.Mutex
	idleCond *sync.Cond // 最后一个工作中的 worker 归零时广播

	keepalive atomic.Bool // false 后 worker 退出、阻塞操作取消
	active    atomic.Bool // false 时提交与派发暂停（静默）

	startHook StartHook
	endHook   EndHook
	hookArg   any
	hookDtor  Destructor
	hookRefs  atomic.Int32

	passport     *xpassport.Passport
	userPassport bool

	// gids 存活 worker 的 goroutine id 集合，供自调用检测。
	gidMu sync.RWMutex
	gids  map[int64]struct{}

	logger   xlog.Logger
	recorder Recorder
	pin      bool
}

// New 创建并启动线程池。
//
// 参数：
//   - workers: worker 数量，必须在 [1, 65536] 范围内，否则返回 [ErrInvalidWorkers]
//   - queueMax: 队列长度上限；<= 0 表示无界，上限 16777216，否则返回 [ErrInvalidQueueMax]
//
// 阻塞直到所有 worker 报告存活。Passport 经 Bind 迁移 Unbound→Alive；
// 已绑定的 passport 返回 xpassport.ErrRebind（调用方持有的 passport
// 维持原状，池内部创建的随错误一起丢弃）。
func New(workers, queueMax int, opts ...Option) (*Pool, error) {
	if workers < 1 || workers > maxWorkers {
		return nil, fmt.Errorf("%w: got %d, must be in [1, %d]", ErrInvalidWorkers, workers, maxWorkers)
	}
	if queueMax > maxQueueLen {
		return nil, fmt.Errorf("%w: got %d, must not exceed %d", ErrInvalidQueueMax, queueMax, maxQueueLen)
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.prefix == "" || utf8.RuneCountInString(o.prefix) > maxPrefixLen {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, o.prefix)
	}

	p := &Pool{
		prefix:     o.prefix,
		numThreads: workers,
		startHook:  o.startHook,
		endHook:    o.endHook,
		hookArg:    o.hookArg,
		hookDtor:   o.hookDtor,
		logger:     o.logger.With(slog.String("pool", o.prefix)),
		recorder:   o.recorder,
		pin:        o.pin,
		gids:       make(map[int64]struct{}, workers),
	}
	p.getCond = sync.NewCond(&p.qmu)
	p.putCond = sync.NewCond(&p.qmu)
	p.idleCond = sync.NewCond(&p.idleMu)
	if queueMax > 0 {
		p.queue.maxLen = queueMax
	}

	pp := o.passport
	p.userPassport = pp != nil
	if pp == nil {
		pp = xpassport.New()
	}
	if err := pp.Bind(p); err != nil {
		return nil, fmt.Errorf("xthpool: bind passport: %w", err)
	}
	p.passport = pp

	// 析构函数配置时启用引用计数：每个 worker 一份 + 初始化一份。
	if p.hookDtor != nil {
		p.hookRefs.Store(int32(workers) + 1)
	}
	p.keepalive.Store(true)
	p.active.Store(true)

	p.workers = make([]*Worker, workers)
	for i := range p.workers {
		w := &Worker{
			id:   i,
			name: fmt.Sprintf("%s-%x", o.prefix, i),
			pool: p,
		}
		if p.hookDtor != nil {
			w.holdsHookRef.Store(true)
		}
		p.workers[i] = w
		go w.run()
	}
	for p.numAlive.Load() < int32(workers) {
		time.Sleep(pollInterval)
	}

	// worker 创建已成定局，归还初始化持有的那份引用。
	if p.hookDtor != nil {
		p.dropHookRef()
	}

	p.logger.Info(context.Background(), "pool started",
		slog.Int("workers", workers),
		slog.Int("queue_max", queueMax),
	)
	return p, nil
}

// Submit 提交一个任务。
// 队列有界且已满、或池处于静默状态时阻塞；Shutdown 介入时返回
// [ErrCanceled]；池不在 Alive 状态时返回 [ErrInvalidState]。
func (p *Pool) Submit(fn TaskFunc, arg any) error {
	if fn == nil {
		return ErrNilTask
	}
	return p.gate("submit", func() error {
		return p.enqueue(fn, arg)
	})
}

// Wait 阻塞直到队列排空且没有 worker 在执行任务，然后静默池
// （暂停提交与派发，worker 保持存活）。用 Reactivate 恢复。
//
// 不得从本池的 worker goroutine 调用（返回 [ErrSelfCall]）。
// 静默后未 Reactivate 的再次 Wait 可能永久阻塞。
// Shutdown 介入时返回 [ErrCanceled]。
func (p *Pool) Wait() error {
	if p.onWorkerGoroutine() {
		return ErrSelfCall
	}
	return p.gate("wait", func() error {
		return p.quiesce()
	})
}

// quiesce Wait 的内层实现。
//
// 在空闲锁内读取队列长度与工作计数（读取本身在队列锁内完成，
// 保证快照一致）；持有空闲锁跨越读取与条件等待，关闭错失唤醒的
// 窗口。active 置 false 发生在队列锁内，与队列操作串行化：
// 在"观察到空闲"与"静默生效"之间不会有 worker 取走任务。
func (p *Pool) quiesce() error {
	p.idleMu.Lock()
	defer p.idleMu.Unlock()
	for {
		if !p.keepalive.Load() {
			return ErrCanceled
		}
		p.qmu.Lock()
		if p.queue.len > 0 || p.numWorking.Load() > 0 {
			p.qmu.Unlock()
			p.idleCond.Wait()
			continue
		}
		p.active.Store(false)
		p.qmu.Unlock()
		return nil
	}
}

// Reactivate 解除静默，恢复提交与派发。
// 池本就处于活跃派发状态时是空操作。
func (p *Pool) Reactivate() error {
	return p.gate("reactivate", func() error {
		p.reactivate()
		return nil
	})
}

func (p *Pool) reactivate() {
	p.qmu.Lock()
	p.active.Store(true)
	p.getCond.Broadcast()
	p.putCond.Broadcast()
	p.qmu.Unlock()
}

// NumWorking 返回正在执行任务的 worker 数。
func (p *Pool) NumWorking() (int, error) {
	var n int
	err := p.gate("num_working", func() error {
		n = int(p.numWorking.Load())
		return nil
	})
	return n, err
}

// Shutdown 停止池：不再接受提交，唤醒全部等待者，等待所有 worker
// 退出与在途 API 调用归零，丢弃仍在排队的任务，状态推进到 Shutdown。
// 不释放资源（见 Destroy）。
//
// 不得从本池的 worker goroutine 调用（返回 [ErrSelfCall]）。
// 状态不是 Alive 时返回 [ErrInvalidState]。
func (p *Pool) Shutdown() error {
	if p.onWorkerGoroutine() {
		return ErrSelfCall
	}
	if err := p.passport.Advance(xpassport.StateAlive, xpassport.StateShuttingDown); err != nil {
		var use *xpassport.UnexpectedStateError
		if errors.As(err, &use) {
			return fmt.Errorf("%w: shutdown while %s", ErrInvalidState, use.Observed)
		}
		return err
	}

	ctx := context.Background()
	p.logger.Info(ctx, "pool shutting down")

	p.keepalive.Store(false)
	p.active.Store(false)

	// 唤醒所有 worker 并等它们退出。广播放在轮询循环里：
	// 广播与等待者重新检查谓词之间没有原子性，单次广播可能
	// 落在竞争窗口里。
	for p.numAlive.Load() > 0 {
		p.broadcastAll()
		time.Sleep(pollInterval)
	}

	// 唤醒仍阻塞在 Submit/Wait 里的用户线程（它们带着 ErrCanceled
	// 退出并归还在途计数），等在途 API 调用归零。
	for p.passport.InFlight() > 0 {
		p.broadcastAll()
		time.Sleep(pollInterval)
	}

	p.qmu.Lock()
	discarded := p.queue.drain()
	p.qmu.Unlock()
	if discarded > 0 {
		p.logger.Warn(ctx, "jobs discarded at shutdown", slog.Int("count", discarded))
	}

	if err := p.passport.Advance(xpassport.StateShuttingDown, xpassport.StateShutdown); err != nil {
		// ShuttingDown 由本调用独占持有，观察到其他状态说明生命周期已被破坏。
		p.logger.Fatal(ctx, "lifecycle corrupted during shutdown",
			slog.String("state", p.passport.State().String()))
	}
	p.logger.Info(ctx, "pool shutdown complete")
	return nil
}

// Destroy 释放池的全部资源，状态推进到终态 Destroyed。
//
// 状态为 Alive 时记录警告并先执行隐式 Shutdown；为 ShuttingDown 时
// 等待其完成；为 Shutdown 时直接销毁；其余状态返回 [ErrInvalidState]。
// 不得从本池的 worker goroutine 调用（返回 [ErrSelfCall]）。
func (p *Pool) Destroy() error {
	if p.onWorkerGoroutine() {
		return ErrSelfCall
	}
	ctx := context.Background()
	for {
		switch s := p.passport.State(); s {
		case xpassport.StateAlive:
			p.logger.Warn(ctx, "destroy called on live pool, shutting down first")
			if err := p.Shutdown(); err != nil && !errors.Is(err, ErrInvalidState) {
				return err
			}
			// ErrInvalidState：竞争者抢先推进了状态，重读后继续。

		case xpassport.StateShuttingDown:
			time.Sleep(pollInterval)

		case xpassport.StateShutdown:
			if err := p.passport.Advance(xpassport.StateShutdown, xpassport.StateDestroying); err != nil {
				continue
			}
			p.release()
			if err := p.passport.Advance(xpassport.StateDestroying, xpassport.StateDestroyed); err != nil {
				p.logger.Fatal(ctx, "lifecycle corrupted during destroy",
					slog.String("state", p.passport.State().String()))
			}
			// Go 没有手工释放：库持有的 passport 随池一起由 GC 回收，
			// 调用方持有的 passport 维持 Destroyed 终态供后续误用检测。
			p.logger.Info(ctx, "pool destroyed",
				slog.Bool("user_passport", p.userPassport))
			return nil

		default:
			return fmt.Errorf("%w: destroy while %s", ErrInvalidState, s)
		}
	}
}

// release 释放 worker 元数据。所有 worker 已退出（Shutdown 保证），
// 仍未归还的 hook 参数引用在这里归还。
func (p *Pool) release() {
	for _, w := range p.workers {
		w.releaseMeta()
	}
	p.workers = nil

	p.gidMu.Lock()
	p.gids = nil
	p.gidMu.Unlock()
}

// Workers 返回配置的 worker 数量。
func (p *Pool) Workers() int {
	return p.numThreads
}

// QueueLen 返回当前排队任务数。监控快照，不经生命周期门。
func (p *Pool) QueueLen() int {
	p.qmu.Lock()
	defer p.qmu.Unlock()
	return p.queue.len
}

// WorkingWorkers 返回正在执行任务的 worker 数。监控快照，不经
// 生命周期门（供 xmetrics 的观测回调使用）。
func (p *Pool) WorkingWorkers() int {
	return int(p.numWorking.Load())
}

// ----------------------------------------------------------------------------
// API 门与队列协议
// ----------------------------------------------------------------------------

// gate 非生命周期操作的统一入口：登记在途调用、校验 Alive 状态。
func (p *Pool) gate(op string, fn func() error) error {
	pp := p.passport
	pp.EnterAPI()
	defer pp.LeaveAPI()

	if s := pp.State(); s != xpassport.StateAlive {
		p.logger.Warn(context.Background(), "operation rejected by lifecycle gate",
			slog.String("op", op),
			slog.String("state", s.String()),
		)
		return fmt.Errorf("%w: %s while %s", ErrInvalidState, op, s)
	}
	return fn()
}

// enqueue 构造任务并入队，成功后通知 Recorder。
func (p *Pool) enqueue(fn TaskFunc, arg any) error {
	if err := p.putJob(&job{fn: fn, arg: arg}); err != nil {
		return err
	}
	if p.recorder != nil {
		p.recorder.TaskSubmitted()
	}
	return nil
}

// putJob 入队一个任务。
// 谓词：池在静默中、或队列有界且已满时等待；keepalive 翻转后带
// ErrCanceled 退出。长度 0→1 时广播取任务条件。
func (p *Pool) putJob(j *job) error {
	p.qmu.Lock()
	for p.keepalive.Load() && (!p.active.Load() || (p.queue.maxLen > 0 && p.queue.len >= p.queue.maxLen)) {
		p.putCond.Wait()
	}
	if !p.keepalive.Load() {
		p.qmu.Unlock()
		return ErrCanceled
	}
	p.queue.push(j)
	if p.queue.len == 1 {
		p.getCond.Broadcast()
	}
	p.qmu.Unlock()
	return nil
}

// getJob 取出一个任务；池停止时返回 nil。
// 谓词：队列空或池在静默中时等待。numWorking 在队列锁内递增，
// 保证 Wait 在同一把锁下读到的 (len, working) 是一致快照——
// 已取出未开跑的任务不会被误判为"空闲"。长度离开满位时广播
// 放任务条件。
func (p *Pool) getJob() *job {
	p.qmu.Lock()
	for p.keepalive.Load() && (p.queue.len == 0 || !p.active.Load()) {
		p.getCond.Wait()
	}
	if !p.keepalive.Load() {
		p.qmu.Unlock()
		return nil
	}
	j := p.queue.pull()
	p.numWorking.Add(1)
	if p.queue.maxLen > 0 && p.queue.len == p.queue.maxLen-1 {
		p.putCond.Broadcast()
	}
	p.qmu.Unlock()
	return j
}

// broadcastAll 唤醒全部三个条件变量上的等待者。
func (p *Pool) broadcastAll() {
	p.qmu.Lock()
	p.getCond.Broadcast()
	p.putCond.Broadcast()
	p.qmu.Unlock()

	p.idleMu.Lock()
	p.idleCond.Broadcast()
	p.idleMu.Unlock()
}

// ----------------------------------------------------------------------------
// worker 登记与 hook 参数引用计数
// ----------------------------------------------------------------------------

func (p *Pool) trackWorker(gid int64) {
	p.gidMu.Lock()
	if p.gids != nil {
		p.gids[gid] = struct{}{}
	}
	p.gidMu.Unlock()
}

func (p *Pool) untrackWorker(gid int64) {
	p.gidMu.Lock()
	if p.gids != nil {
		delete(p.gids, gid)
	}
	p.gidMu.Unlock()
}

// onWorkerGoroutine 判断当前 goroutine 是否本池的 worker。
func (p *Pool) onWorkerGoroutine() bool {
	gid := goid()
	p.gidMu.RLock()
	_, ok := p.gids[gid]
	p.gidMu.RUnlock()
	return ok
}

// dropHookRef 归还一份共享 hook 参数引用；计数归零时执行析构函数。
func (p *Pool) dropHookRef() {
	if p.hookRefs.Add(-1) == 0 {
		p.hookDtor(p.hookArg)
	}
}
