// Package xsys 提供线程相关的操作系统适配能力。
//
// 当前只包含 OS 线程命名：SetThreadName 将当前 OS 线程的显示名设置为
// 给定字符串（Linux 上通过 prctl(PR_SET_NAME)，其他平台返回
// ErrUnsupported）。线程命名是尽力而为的调试辅助，调用方应把失败
// 当作非致命事件处理（最多记一条 debug 日志）。
//
// 调用方需自行保证调用发生在目标 OS 线程上（例如先
// runtime.LockOSThread 再调用）。
package xsys
