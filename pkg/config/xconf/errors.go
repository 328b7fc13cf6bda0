package xconf

import "errors"

var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("xconf: empty path")

	// ErrUnsupportedFormat 表示无法识别的配置格式。
	ErrUnsupportedFormat = errors.New("xconf: unsupported format")

	// ErrLoadFailed 表示配置读取或解析失败。
	ErrLoadFailed = errors.New("xconf: load failed")

	// ErrUnmarshalFailed 表示配置反序列化失败。
	ErrUnmarshalFailed = errors.New("xconf: unmarshal failed")

	// ErrNotReloadable 表示配置不是从文件创建的，无法 Reload。
	ErrNotReloadable = errors.New("xconf: config not backed by a file")

	// ErrNilCallback 表示 Watch 的回调为 nil。
	ErrNilCallback = errors.New("xconf: nil callback")
)
