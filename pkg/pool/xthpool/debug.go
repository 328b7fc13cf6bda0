package xthpool

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omeyang/poolkit/pkg/observability/xlog"
	"github.com/omeyang/poolkit/pkg/pool/xpassport"
)

// 诊断入口：与默认入口同语义，但由调用方显式传入自己持有的 Passport。
//
// 默认入口通过池句柄找 passport，只在池存活期间安全；诊断入口先读
// passport 状态，非 Alive 时直接短路返回，不触碰池内部状态——调用方
// 保证 passport 比池活得久，于是池销毁后的误用调用也能得到 INVAL
// 语义的报告而非未定义行为。绑定校验只比较身份，不解引用。

// gateWithPassport 诊断入口的统一门。状态校验先于绑定校验：
// 状态不是 Alive 时不得读取池的任何字段。
func gateWithPassport(p *Pool, pp *xpassport.Passport, op string, fn func() error) error {
	if pp == nil {
		return ErrNilPassport
	}
	pp.EnterAPI()
	defer pp.LeaveAPI()

	if s := pp.State(); s != xpassport.StateAlive {
		xlog.Warn(context.Background(), "operation rejected by passport gate",
			slog.String("op", op),
			slog.String("state", s.String()),
		)
		return fmt.Errorf("%w: %s while %s", ErrInvalidState, op, s)
	}
	if !pp.BoundTo(p) {
		return ErrPassportMismatch
	}
	return fn()
}

// SubmitWithPassport 等价于 [Pool.Submit]，经调用方持有的 passport 校验。
func SubmitWithPassport(p *Pool, pp *xpassport.Passport, fn TaskFunc, arg any) error {
	if fn == nil {
		return ErrNilTask
	}
	return gateWithPassport(p, pp, "submit", func() error {
		return p.enqueue(fn, arg)
	})
}

// WaitWithPassport 等价于 [Pool.Wait]，经调用方持有的 passport 校验。
func WaitWithPassport(p *Pool, pp *xpassport.Passport) error {
	return gateWithPassport(p, pp, "wait", func() error {
		if p.onWorkerGoroutine() {
			return ErrSelfCall
		}
		return p.quiesce()
	})
}

// ReactivateWithPassport 等价于 [Pool.Reactivate]，经调用方持有的 passport 校验。
func ReactivateWithPassport(p *Pool, pp *xpassport.Passport) error {
	return gateWithPassport(p, pp, "reactivate", func() error {
		p.reactivate()
		return nil
	})
}

// NumWorkingWithPassport 等价于 [Pool.NumWorking]，经调用方持有的 passport 校验。
func NumWorkingWithPassport(p *Pool, pp *xpassport.Passport) (int, error) {
	var n int
	err := gateWithPassport(p, pp, "num_working", func() error {
		n = int(p.numWorking.Load())
		return nil
	})
	return n, err
}

// ShutdownWithPassport 等价于 [Pool.Shutdown]，先校验绑定关系。
// 生命周期推进本身由 passport 上的 CAS 保护，无需经过在途计数门。
func ShutdownWithPassport(p *Pool, pp *xpassport.Passport) error {
	if pp == nil {
		return ErrNilPassport
	}
	if !pp.BoundTo(p) {
		return ErrPassportMismatch
	}
	return p.Shutdown()
}

// DestroyWithPassport 等价于 [Pool.Destroy]，先校验绑定关系。
func DestroyWithPassport(p *Pool, pp *xpassport.Passport) error {
	if pp == nil {
		return ErrNilPassport
	}
	if !pp.BoundTo(p) {
		return ErrPassportMismatch
	}
	return p.Destroy()
}
