package xrotate

import "errors"

var (
	// ErrEmptyFilename 表示日志文件路径为空。
	ErrEmptyFilename = errors.New("xrotate: empty filename")

	// ErrInvalidMaxSize 表示单文件大小上限无效（必须为正数）。
	ErrInvalidMaxSize = errors.New("xrotate: max size must be positive")

	// ErrInvalidMaxBackups 表示保留份数无效（不能为负数）。
	ErrInvalidMaxBackups = errors.New("xrotate: max backups must not be negative")

	// ErrInvalidMaxAge 表示保留天数无效（不能为负数）。
	ErrInvalidMaxAge = errors.New("xrotate: max age must not be negative")
)
