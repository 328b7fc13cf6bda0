package xsys

import "unicode/utf8"

// maxThreadNameLen Linux 内核 comm 字段的可见长度上限
// （TASK_COMM_LEN 16 字节含结尾 NUL）。
const maxThreadNameLen = 15

// ValidateThreadName 校验线程名的有效性。
// 跨平台共享校验逻辑，保证不支持命名的平台也报告一致的参数错误。
func ValidateThreadName(name string) error {
	if name == "" {
		return ErrEmptyThreadName
	}
	if utf8.RuneCountInString(name) > maxThreadNameLen {
		return ErrThreadNameTooLong
	}
	return nil
}

// SetThreadName 设置当前 OS 线程的显示名。
// 必须在目标线程上调用（通常先 runtime.LockOSThread）。
// 平台不支持时返回 ErrUnsupported；调用方应视为非致命。
func SetThreadName(name string) error {
	if err := ValidateThreadName(name); err != nil {
		return err
	}
	return setThreadName(name)
}
