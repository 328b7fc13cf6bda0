package xpassport

import (
	"errors"
	"fmt"
)

var (
	// ErrRebind 表示 Passport 已绑定到其他池。
	ErrRebind = errors.New("xpassport: passport already bound")

	// ErrUnexpectedState 表示 CAS 迁移时观察到非预期状态。
	// 使用 errors.As 获取 *UnexpectedStateError 读取具体状态。
	ErrUnexpectedState = errors.New("xpassport: unexpected state")

	// ErrNilOwner 表示 Bind 的 owner 参数为 nil。
	ErrNilOwner = errors.New("xpassport: nil owner")
)

// UnexpectedStateError 携带 CAS 迁移失败时观察到的具体状态。
type UnexpectedStateError struct {
	// Want 期望的当前状态。
	Want State
	// Observed 实际观察到的状态。
	Observed State
}

// Error 实现 error 接口。
func (e *UnexpectedStateError) Error() string {
	return fmt.Sprintf("xpassport: unexpected state %s (want %s)", e.Observed, e.Want)
}

// Is 支持 errors.Is(err, ErrUnexpectedState) 判断。
func (e *UnexpectedStateError) Is(target error) bool {
	return target == ErrUnexpectedState
}
