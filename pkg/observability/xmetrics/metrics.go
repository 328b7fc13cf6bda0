package xmetrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// 指标名。单位遵循 OTel 语义约定（任务计数与队列深度用 {task}，
// 工作中 worker 数用 {worker}）。
const (
	metricTasksSubmitted = "poolkit.pool.tasks.submitted"
	metricTasksCompleted = "poolkit.pool.tasks.completed"
	metricQueueDepth     = "poolkit.pool.queue.depth"
	metricWorkersWorking = "poolkit.pool.workers.working"

	// AttrKeyPool 是指标中池名称的属性键。
	AttrKeyPool = "pool"
)

// PoolStats 是观测回调需要的池状态快照接口，由 *xthpool.Pool 实现。
type PoolStats interface {
	// QueueLen 返回当前排队任务数。
	QueueLen() int
	// WorkingWorkers 返回正在执行任务的 worker 数。
	WorkingWorkers() int
}

// PoolRecorder 把任务事件记为 OTel 计数器。实现 xthpool.Recorder。
type PoolRecorder struct {
	submitted metric.Int64Counter
	completed metric.Int64Counter
	attrs     metric.MeasurementOption
}

// NewPoolRecorder 创建任务事件记录器。
// poolName 作为 pool 属性附在每个数据点上，便于多池区分。
func NewPoolRecorder(meter metric.Meter, poolName string) (*PoolRecorder, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	submitted, err := meter.Int64Counter(
		metricTasksSubmitted,
		metric.WithDescription("tasks accepted into the queue"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateCounter, err)
	}
	completed, err := meter.Int64Counter(
		metricTasksCompleted,
		metric.WithDescription("tasks finished executing"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateCounter, err)
	}

	return &PoolRecorder{
		submitted: submitted,
		completed: completed,
		attrs:     metric.WithAttributes(attribute.String(AttrKeyPool, poolName)),
	}, nil
}

// TaskSubmitted 记录一次任务入队。
func (r *PoolRecorder) TaskSubmitted() {
	r.submitted.Add(context.Background(), 1, r.attrs)
}

// TaskCompleted 记录一次任务完成。
func (r *PoolRecorder) TaskCompleted() {
	r.completed.Add(context.Background(), 1, r.attrs)
}

// Instrument 注册池状态的异步观测：队列深度与工作中 worker 数。
// 返回的 Registration 在池销毁前应当 Unregister，避免回调读取
// 已停用的池（读取本身安全，只是数值恒为 0）。
func Instrument(meter metric.Meter, poolName string, stats PoolStats) (metric.Registration, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if stats == nil {
		return nil, ErrNilStats
	}

	depth, err := meter.Int64ObservableGauge(
		metricQueueDepth,
		metric.WithDescription("jobs currently queued"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateGauge, err)
	}
	working, err := meter.Int64ObservableGauge(
		metricWorkersWorking,
		metric.WithDescription("workers currently executing a task"),
		metric.WithUnit("{worker}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateGauge, err)
	}

	attrs := metric.WithAttributes(attribute.String(AttrKeyPool, poolName))
	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(depth, int64(stats.QueueLen()), attrs)
		o.ObserveInt64(working, int64(stats.WorkingWorkers()), attrs)
		return nil
	}, depth, working)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegisterCallback, err)
	}
	return reg, nil
}
