package main

import (
	"github.com/urfave/cli/v3"

	"github.com/omeyang/poolkit/pkg/config/xconf"
)

// benchConfig poolbench 的完整配置。
//
// 配置文件结构:
//
//	pool:
//	  name_prefix: bench
//	  workers: 8
//	  queue_max: 0
//	  pin_threads: false
//	log:
//	  level: info
//	  file: ""
type benchConfig struct {
	Pool struct {
		NamePrefix string `koanf:"name_prefix"`
		Workers    int    `koanf:"workers"`
		QueueMax   int    `koanf:"queue_max"`
		PinThreads bool   `koanf:"pin_threads"`
	} `koanf:"pool"`
	Log struct {
		Level string `koanf:"level"`
		File  string `koanf:"file"`
	} `koanf:"log"`
}

// resolveConfig 合并配置：命令行默认值 ← 配置文件 ← 显式命令行选项。
// 显式传入的命令行选项优先于配置文件。
func resolveConfig(cmd *cli.Command) (benchConfig, error) {
	var cfg benchConfig
	cfg.Pool.NamePrefix = cmd.String("prefix")
	cfg.Pool.Workers = cmd.Int("workers")
	cfg.Pool.QueueMax = cmd.Int("queue-max")
	cfg.Pool.PinThreads = cmd.Bool("pin")
	cfg.Log.Level = cmd.String("log-level")
	cfg.Log.File = cmd.String("log-file")

	path := cmd.String("config")
	if path == "" {
		return cfg, nil
	}

	file, err := xconf.New(path)
	if err != nil {
		return cfg, err
	}
	var fromFile benchConfig
	fromFile.Pool.NamePrefix = cfg.Pool.NamePrefix
	fromFile.Pool.Workers = cfg.Pool.Workers
	fromFile.Pool.QueueMax = cfg.Pool.QueueMax
	fromFile.Pool.PinThreads = cfg.Pool.PinThreads
	fromFile.Log.Level = cfg.Log.Level
	fromFile.Log.File = cfg.Log.File
	if err := file.Unmarshal("", &fromFile); err != nil {
		return cfg, err
	}

	// 显式命令行选项覆盖文件值
	if !cmd.IsSet("prefix") {
		cfg.Pool.NamePrefix = fromFile.Pool.NamePrefix
	}
	if !cmd.IsSet("workers") {
		cfg.Pool.Workers = fromFile.Pool.Workers
	}
	if !cmd.IsSet("queue-max") {
		cfg.Pool.QueueMax = fromFile.Pool.QueueMax
	}
	if !cmd.IsSet("pin") {
		cfg.Pool.PinThreads = fromFile.Pool.PinThreads
	}
	if !cmd.IsSet("log-level") {
		cfg.Log.Level = fromFile.Log.Level
	}
	if !cmd.IsSet("log-file") {
		cfg.Log.File = fromFile.Log.File
	}
	return cfg, nil
}
