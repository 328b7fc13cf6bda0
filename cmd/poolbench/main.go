// poolbench 是 xthpool 的场景驱动器。
//
// 用法:
//
//	poolbench [全局选项] <场景> [场景参数]
//
// 全局选项:
//
//	-c, --config     配置文件路径 (yaml/json，可选)
//	-w, --workers    worker 数量 (默认: 4)
//	    --queue-max  队列长度上限，<= 0 表示无界 (默认: 0)
//	    --prefix     worker 名称前缀，≤ 6 字符 (默认: bench)
//	    --pin        锁定 OS 线程并设置线程名
//	    --log-level  日志级别 debug|info|warn|error (默认: info)
//	    --log-file   日志文件路径，启用大小轮转；为空时输出到 stdout
//
// 场景:
//
//	smoke         提交 N 个任务，Wait 后校验全部执行 (--tasks, 默认 40)
//	backpressure  有界队列背压：慢任务 + 小队列，观察提交阻塞
//	quiesce       静默/恢复：Wait 后提交阻塞，Reactivate 解除
//	hookarg       共享 hook 参数引用计数：析构函数恰好执行一次
//
// 退出码:
//
//	0: 场景通过
//	1: 场景失败
//	2: 参数错误
//
// 配置文件优先级低于显式命令行选项，结构见 config.go。
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/poolkit/pkg/observability/xlog"
	"github.com/omeyang/poolkit/pkg/observability/xrotate"
)

func main() {
	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "poolbench:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "poolbench",
		Usage: "xthpool 场景驱动器",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "配置文件路径 (yaml/json)"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: 4, Usage: "worker 数量"},
			&cli.IntFlag{Name: "queue-max", Value: 0, Usage: "队列长度上限，<= 0 无界"},
			&cli.StringFlag{Name: "prefix", Value: "bench", Usage: "worker 名称前缀 (≤ 6 字符)"},
			&cli.BoolFlag{Name: "pin", Usage: "锁定 OS 线程并设置线程名"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "日志级别"},
			&cli.StringFlag{Name: "log-file", Usage: "日志文件路径 (启用轮转)"},
		},
		Commands: []*cli.Command{
			{
				Name:  "smoke",
				Usage: "提交 N 个任务并校验全部执行",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "tasks", Value: 40, Usage: "任务数量"},
				},
				Action: withEnv(func(ctx context.Context, env *benchEnv, cmd *cli.Command) error {
					return runSmoke(ctx, env, cmd.Int("tasks"))
				}),
			},
			{
				Name:  "backpressure",
				Usage: "有界队列背压场景",
				Action: withEnv(func(ctx context.Context, env *benchEnv, _ *cli.Command) error {
					return runBackpressure(ctx, env)
				}),
			},
			{
				Name:  "quiesce",
				Usage: "静默/恢复场景",
				Action: withEnv(func(ctx context.Context, env *benchEnv, _ *cli.Command) error {
					return runQuiesce(ctx, env)
				}),
			},
			{
				Name:  "hookarg",
				Usage: "hook 参数引用计数场景",
				Action: withEnv(func(ctx context.Context, env *benchEnv, _ *cli.Command) error {
					return runHookArg(ctx, env)
				}),
			},
		},
	}
}

// withEnv 在场景动作外层完成配置解析与日志初始化。
func withEnv(action func(ctx context.Context, env *benchEnv, cmd *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		env, cleanup, err := newBenchEnv(cfg)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		defer cleanup()

		if err := action(ctx, env, cmd); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return nil
	}
}

// benchEnv 一次场景运行的环境：解析后的配置与 logger。
type benchEnv struct {
	cfg    benchConfig
	logger xlog.LoggerWithLevel
}

// newBenchEnv 构建场景环境。返回的 cleanup 负责关闭轮转写入器。
func newBenchEnv(cfg benchConfig) (*benchEnv, func(), error) {
	level, err := xlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	opts := []xlog.Option{xlog.WithLevel(level)}
	if cfg.Log.File != "" {
		rot, rerr := xrotate.NewLumberjack(cfg.Log.File)
		if rerr != nil {
			return nil, nil, rerr
		}
		opts = append(opts, xlog.WithWriter(rot), xlog.WithFormat(xlog.FormatJSON))
		cleanup = func() { _ = rot.Close() }
	}

	return &benchEnv{cfg: cfg, logger: xlog.New(opts...)}, cleanup, nil
}
