// Package pool 提供线程池核心相关的子包。
//
// 子包列表：
//   - xthpool: 固定规模 worker 池，生命周期状态机、有界队列、静默/恢复
//   - xpassport: 并发状态通行证，池销毁后的误用检测
package pool
