package xmetrics

import "errors"

var (
	// ErrNilMeter 表示 meter 参数为 nil。
	ErrNilMeter = errors.New("xmetrics: nil meter")

	// ErrNilStats 表示被观测的池为 nil。
	ErrNilStats = errors.New("xmetrics: nil pool stats")

	// ErrCreateCounter 表示计数器创建失败。
	ErrCreateCounter = errors.New("xmetrics: create counter")

	// ErrCreateGauge 表示异步 gauge 创建失败。
	ErrCreateGauge = errors.New("xmetrics: create gauge")

	// ErrRegisterCallback 表示观测回调注册失败。
	ErrRegisterCallback = errors.New("xmetrics: register callback")
)
