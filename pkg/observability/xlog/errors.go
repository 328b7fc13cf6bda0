package xlog

import "errors"

var (
	// ErrInvalidLevel 表示无法识别的级别名称。
	ErrInvalidLevel = errors.New("xlog: invalid level")

	// ErrInvalidFormat 表示无法识别的输出格式。
	ErrInvalidFormat = errors.New("xlog: invalid format")
)
