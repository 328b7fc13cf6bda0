// Package xconf 提供驱动程序的配置加载能力。
//
// 基于 koanf v2，按文件扩展名自动识别 YAML/JSON，支持并发安全的
// Reload 与基于 fsnotify 的文件变更监听（用于运行时调整日志级别
// 之类的热更新场景）。
//
// 使用方式：
//
//	cfg, err := xconf.New("poolbench.yaml")
//	if err != nil { ... }
//	var pc PoolConfig
//	if err := cfg.Unmarshal("pool", &pc); err != nil { ... }
//
//	stop, err := xconf.Watch(cfg, func() { /* 重新读取生效项 */ })
//	defer stop()
package xconf
