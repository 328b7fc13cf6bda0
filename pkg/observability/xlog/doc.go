// Package xlog 提供 poolkit 的分级日志能力。
//
// 五个日志级别：Debug、Info、Warn、Error、Fatal。
// Fatal 在记录日志后终止进程——用于不可恢复的内部不变量破坏
// （例如状态机在 CAS 成功后观察到非预期状态）。
//
// 核心特性：
//   - 基于 log/slog，Handler 可替换（text/json/自定义 Writer）
//   - 强制 context 传递，方法签名只接受 slog.Attr
//   - 动态级别控制（SetLevel 运行时生效，无需重启）
//   - With 派生 logger，共享父级的动态级别
//   - 包级默认 logger（Default/SetDefault），供未显式注入 logger 的组件使用
//
// # 使用方式
//
//	logger := xlog.New(xlog.WithLevel(xlog.LevelDebug))
//	logger.Info(ctx, "pool started", slog.Int("workers", 8))
//
// # Fatal 契约
//
// Fatal 记录日志后调用 os.Exit(1)，不执行 defer。
// 仅用于进程无法继续的场景；可恢复错误一律使用 Error。
package xlog
