//go:build linux

package xsys

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// setThreadName Linux 实现：prctl(PR_SET_NAME)。
// 内核按字节静默截断超过 15 字节的名称。ValidateThreadName 按字符数
// 校验，只拦截超过 15 个字符的名称；15 个字符以内但超过 15 字节的
// 多字节名称会被内核截断。
func setThreadName(name string) error {
	b, err := unix.BytePtrFromString(name)
	if err != nil {
		return err
	}
	return unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(b)), 0, 0, 0)
}
