// Package xrotate 提供带轮转的日志写入器。
//
// Rotator 是一个并发安全的 io.WriteCloser，按大小轮转日志文件，
// 支持保留份数、保留天数与压缩。底层基于 lumberjack 实现。
// 典型用法是作为 xlog 的输出 Writer：
//
//	r, err := xrotate.NewLumberjack("/var/log/poolbench.log",
//	    xrotate.WithMaxSizeMB(64),
//	    xrotate.WithMaxBackups(7),
//	)
//	logger := xlog.New(xlog.WithWriter(r), xlog.WithFormat(xlog.FormatJSON))
package xrotate
