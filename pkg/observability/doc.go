// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 分级日志（debug/info/warn/error/fatal），基于 log/slog 扩展
//   - xmetrics: 线程池的 OpenTelemetry 指标接入
//   - xrotate: 日志文件轮转
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 支持动态级别控制
//   - Fatal 保留给不可恢复的内部不变量破坏
package observability
