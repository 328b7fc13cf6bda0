// Package xpassport 提供线程池的并发状态通行证（concurrency passport）。
//
// Passport 是一个与池本体分离生命周期的小块状态：池的生命周期状态机
// （Unbound → Alive → ShuttingDown → Shutdown → Destroying → Destroyed）
// 加一个在途 API 调用计数。调用方可自行持有 Passport 并保证其比池活得久，
// 从而在池销毁后仍能安全地检测出"对已销毁池的调用"这类误用——
// 诊断入口只读 Passport 状态即可短路返回，不触碰池内存。
//
// # 状态机约束
//
//   - 状态迁移在单个池生命周期内单调：Unbound ↔ Alive 仅限
//     Bind/Unbind（初始化与初始化回滚）；其余迁移只能前进。
//   - 已绑定的 Passport 以 Destroyed 为终态。
//   - 所有迁移使用 CAS；观察到非预期状态返回携带状态名的错误，
//     由调用方决定是诊断还是致命。
//
// # 所有权
//
// Passport 可由调用方创建（New）后在池初始化时传入，也可由池内部创建。
// 调用方创建的 Passport 必须比池活得久；池永远不"释放"调用方的 Passport。
package xpassport
