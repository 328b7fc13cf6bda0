package xsys

import "errors"

var (
	// ErrEmptyThreadName 表示线程名为空。
	ErrEmptyThreadName = errors.New("xsys: empty thread name")

	// ErrThreadNameTooLong 表示线程名超过内核可见长度上限（15 字符）。
	ErrThreadNameTooLong = errors.New("xsys: thread name exceeds 15 characters")

	// ErrUnsupported 表示当前平台不支持线程命名。
	ErrUnsupported = errors.New("xsys: thread naming unsupported on this platform")
)
