package xthpool

import (
	"github.com/omeyang/poolkit/pkg/observability/xlog"
	"github.com/omeyang/poolkit/pkg/pool/xpassport"
)

// TaskFunc 是一个工作单元。arg 为提交时携带的不透明参数，
// w 为执行它的 worker 句柄（仅在本次调用内有效）。
type TaskFunc func(arg any, w *Worker)

// StartHook 在每个 worker 进入主循环前执行一次。
// arg 为 WithHookArg 配置的共享参数。
type StartHook func(arg any, w *Worker)

// EndHook 在每个 worker 退出主循环后执行一次。
type EndHook func(w *Worker)

// Destructor 在共享 hook 参数的引用计数归零时执行一次。
type Destructor func(arg any)

// Recorder 接收池的任务级事件，供外部指标系统消费（见 xmetrics）。
// 实现必须是并发安全且非阻塞的。
type Recorder interface {
	// TaskSubmitted 在任务成功入队后调用。
	TaskSubmitted()
	// TaskCompleted 在任务执行返回（含 panic 恢复）后调用。
	TaskCompleted()
}

// Option 定义 Pool 可选配置函数类型。
type Option func(*options)

type options struct {
	prefix    string
	pin       bool
	startHook StartHook
	endHook   EndHook
	hookArg   any
	hookDtor  Destructor
	passport  *xpassport.Passport
	logger    xlog.Logger
	recorder  Recorder
}

func defaultOptions() options {
	return options{
		prefix: "pool",
		logger: xlog.Default(),
	}
}

// WithNamePrefix 设置 worker 名称前缀（≤ 6 个可见字符）。
// worker 显示名为 "<prefix>-<hex_id>"，整体不超过 15 个可见字符。
// 默认 "pool"。
func WithNamePrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithPinnedThreads 让每个 worker 锁定自己的 OS 线程并尽力设置线程名。
// 命名失败不影响 worker 运行（仅记 debug 日志）。
func WithPinnedThreads() Option {
	return func(o *options) {
		o.pin = true
	}
}

// WithStartHook 设置 worker 启动钩子。
// 钩子没有返回值，也不得终止进程；内部的资源管理由使用方负责。
func WithStartHook(h StartHook) Option {
	return func(o *options) {
		o.startHook = h
	}
}

// WithEndHook 设置 worker 退出钩子。
func WithEndHook(h EndHook) Option {
	return func(o *options) {
		o.endHook = h
	}
}

// WithHookArg 设置钩子共享参数及其析构函数。
//
// dtor 非 nil 时启用引用计数：初始计数 = worker 数 + 1（每个 worker
// 一份，池初始化一份）；worker 可在任务/钩子内通过 Worker.UnrefHookArg
// 提前归还，未归还的在 Destroy 时归还；计数归零时 dtor(arg) 恰好执行
// 一次。dtor 为 nil 时不启用计数，arg 的生命周期完全由调用方负责。
func WithHookArg(arg any, dtor Destructor) Option {
	return func(o *options) {
		o.hookArg = arg
		o.hookDtor = dtor
	}
}

// WithPassport 绑定调用方持有的并发通行证。
// 调用方必须保证 passport 比池活得久；配合 *WithPassport 诊断入口，
// 池销毁后的误用调用可被安全检出。传入 nil 等同于不设置（池内部创建）。
func WithPassport(pp *xpassport.Passport) Option {
	return func(o *options) {
		o.passport = pp
	}
}

// WithLogger 设置自定义日志记录器，默认 xlog.Default()。
// 传入 nil 将被忽略，保持使用默认值。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRecorder 设置任务事件记录器，默认不记录。
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}
