package xpassport

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/omeyang/poolkit/pkg/observability/xlog"
)

// State 池生命周期状态。
type State int32

// 生命周期状态。除 Unbound ↔ Alive 外，迁移只能沿声明顺序前进。
const (
	// StateUnbound 未绑定任何池。
	StateUnbound State = iota
	// StateAlive 池存活，接受所有操作。
	StateAlive
	// StateShuttingDown 正在停止 worker 并排空队列。
	StateShuttingDown
	// StateShutdown worker 已全部退出，资源尚未释放。
	StateShutdown
	// StateDestroying 正在释放资源。
	StateDestroying
	// StateDestroyed 终态；绑定过的 Passport 不再迁移。
	StateDestroyed
)

// String 返回状态名称。
func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateAlive:
		return "alive"
	case StateShuttingDown:
		return "shutting_down"
	case StateShutdown:
		return "shutdown"
	case StateDestroying:
		return "destroying"
	case StateDestroyed:
		return "destroyed"
	default:
		return "invalid"
	}
}

// Passport 并发状态通行证。
//
// 零值即为可用的未绑定 Passport；New 仅为表达所有权意图的便捷构造。
// state 与 inFlight 为原子量；owner 仅在 Bind/Unbind 的互斥区内写入，
// 读取方通过 BoundTo 比较身份，不解引用。
type Passport struct {
	state    atomic.Int32
	inFlight atomic.Int64

	mu    sync.Mutex
	owner any
}

// New 创建调用方持有的 Passport。
// 调用方必须保证其生命周期覆盖之后绑定的池。
func New() *Passport {
	return &Passport{}
}

// Bind 将 Passport 绑定到 owner，CAS Unbound→Alive。
// 已绑定（状态非 Unbound）返回 ErrRebind；owner 为 nil 返回 ErrNilOwner。
//
// owner 在互斥区内、CAS 成功之前写入：任何通过 State() 观察到 Alive
// 的读取方，随后的 BoundTo 必然看到完整的 owner。
func (p *Passport) Bind(owner any) error {
	if owner == nil {
		return ErrNilOwner
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.owner
	p.owner = owner
	if !p.state.CompareAndSwap(int32(StateUnbound), int32(StateAlive)) {
		p.owner = prev
		return ErrRebind
	}
	return nil
}

// Unbind 回滚绑定，CAS Alive→Unbound 并清除 owner。
// 仅用于池初始化失败的逆序回退；其他状态下调用返回 ErrUnexpectedState。
func (p *Passport) Unbind() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.CompareAndSwap(int32(StateAlive), int32(StateUnbound)) {
		return &UnexpectedStateError{Want: StateAlive, Observed: State(p.state.Load())}
	}
	p.owner = nil
	return nil
}

// Advance 执行一次 CAS 状态迁移 from→to。
// 观察到非 from 状态时返回 *UnexpectedStateError，携带观察到的状态名。
func (p *Passport) Advance(from, to State) error {
	if p.state.CompareAndSwap(int32(from), int32(to)) {
		return nil
	}
	return &UnexpectedStateError{Want: from, Observed: State(p.state.Load())}
}

// State 返回当前状态。
func (p *Passport) State() State {
	return State(p.state.Load())
}

// EnterAPI 记录一次 API 调用进入。与 LeaveAPI 成对使用。
func (p *Passport) EnterAPI() {
	p.inFlight.Add(1)
}

// LeaveAPI 记录一次 API 调用退出。
func (p *Passport) LeaveAPI() {
	p.inFlight.Add(-1)
}

// InFlight 返回在途 API 调用数。
func (p *Passport) InFlight() int64 {
	return p.inFlight.Load()
}

// BoundTo 判断 Passport 是否绑定到 owner。
// 仅比较接口身份，不解引用 owner 指向的内存——池销毁后依然安全。
func (p *Passport) BoundTo(owner any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.owner != nil && p.owner == owner
}

// Close 声明调用方不再使用该 Passport。
//
// 绑定的池尚未走完生命周期（状态既非 Unbound 也非 Destroyed）时，
// 说明调用方违反了"Passport 比池活得久"的契约，大概率导致池侧
// use-after-free 式误用。此时记录 error 日志但仍然继续——契约
// 由调用方负责，这里只做最后的可见性。
func (p *Passport) Close() error {
	s := p.State()
	if s != StateUnbound && s != StateDestroyed {
		xlog.Error(context.Background(), "passport closed while pool still live, likely use-after-free ahead",
			slog.String("state", s.String()),
			slog.Int64("in_flight", p.InFlight()),
		)
	}
	return nil
}
