package xrun

import (
	"errors"
	"fmt"
	"os"
)

// ErrNilFunc 表示传入 Go/GoWithName 的服务函数为 nil。
var ErrNilFunc = errors.New("xrun: nil service func")

// ErrSignal 表示因收到系统信号而终止。
// 使用 errors.Is(err, ErrSignal) 判断是否为信号错误。
var ErrSignal = errors.New("xrun: received signal")

// SignalError 包含触发终止的具体信号信息。
//
// 使用 errors.Is(err, ErrSignal) 判断是否为信号错误，
// 使用 errors.As 获取具体信号值。
type SignalError struct {
	Signal os.Signal
}

// Error 实现 error 接口。
func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "xrun: received signal <nil>"
	}
	return fmt.Sprintf("xrun: received signal %s", e.Signal)
}

// Is 支持 errors.Is(err, ErrSignal) 判断。
func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}

// Unwrap 返回底层错误。
func (e *SignalError) Unwrap() error {
	return ErrSignal
}
