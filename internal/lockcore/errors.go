package lockcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/omeyang/xlockkit/pkg/observability/xlog"
)

// ErrProgramming 是所有契约违规的根错误。
// 各包的哨兵错误（如 xmutex.ErrDestroyHeld）通过 ProgrammingError 包装后
// 同时满足 errors.Is(err, ErrProgramming) 与 errors.Is(err, 哨兵)。
var ErrProgramming = errors.New("lock: programming error")

// ProgrammingError 描述一次契约违规。
// 以 panic 值的形式抛出，不作为返回值传播。
type ProgrammingError struct {
	Op   string // 触发违规的操作，如 "destroy"
	Lock string // 原语名称
	Err  error  // 包级哨兵错误
}

func (e *ProgrammingError) Error() string {
	return fmt.Sprintf("%v (op=%s lock=%q)", e.Err, e.Op, e.Lock)
}

func (e *ProgrammingError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrProgramming) 对所有 ProgrammingError 成立。
func (e *ProgrammingError) Is(target error) bool {
	return target == ErrProgramming
}

// Fatal 以 Error 级别记录带堆栈的日志，然后以 *ProgrammingError panic。
// logger 为 nil 时使用 xlog.Default()。Fatal 从不返回。
func Fatal(ctx context.Context, logger xlog.Logger, op, lock string, err error) {
	pe := &ProgrammingError{Op: op, Lock: lock, Err: err}
	xlog.OrDefault(logger).Stack(ctx, "lock contract violated",
		xlog.Operation(op), xlog.Lock(lock), xlog.Err(err))
	panic(pe)
}

// Recover 执行 fn 并捕获 *ProgrammingError；其它 panic 原样继续传播。
// 供测试与诊断工具在不终止进程的情况下观察契约违规。
func Recover(fn func()) (pe *ProgrammingError) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(*ProgrammingError); ok {
			pe = e
			return
		}
		panic(r)
	}()
	fn()
	return nil
}
