package xmutex

import (
	"context"
	"fmt"
	"time"

	"github.com/omeyang/xlockkit/internal/lockcore"
	"github.com/omeyang/xlockkit/pkg/sched/xsched"
)

// spinClockMask 每隔 64 次迭代检查一次时间预算
const spinClockMask = 63

// spinAcquire 忙等获取自旋锁。每次尝试前屏蔽中断，失败则恢复后退避重试，
// 成功时保存屏蔽前的中断状态，供最外层 Release 恢复。
func (m *Mutex) spinAcquire(ctx context.Context, actor xsched.ActorID) {
	if m.Owner() == actor {
		m.recursion.Add(1)
		m.opts.metrics.recordAcquire(ctx, m.kind, pathRecursive)
		return
	}

	plat := m.opts.platform
	start := time.Now()
	spins := 0
	for {
		prev := plat.DisableInterrupts(actor)
		if m.state.Load() == 0 && m.state.CompareAndSwap(0, uint64(actor)) {
			m.savedIntr.Store(prev)
			m.opts.metrics.recordAcquire(ctx, m.kind, pathSpin)
			return
		}
		plat.RestoreInterrupts(actor, prev)
		lockcore.Backoff(&spins)

		if m.opts.spinLimit > 0 && spins >= m.opts.spinLimit {
			m.fatal(ctx, opAcquire, fmt.Errorf("%w: %d iterations, owner=%d",
				ErrSpinTimeout, spins, uint64(m.Owner())))
		}
		if spins&spinClockMask == 0 {
			if elapsed := time.Since(start); elapsed > m.opts.spinTimeout {
				m.fatal(ctx, opAcquire, fmt.Errorf("%w: %s, owner=%d",
					ErrSpinTimeout, elapsed, uint64(m.Owner())))
			}
		}
	}
}

// spinRelease 释放自旋锁并恢复获取前的中断状态。
// 中断状态必须在清除持有者之前读出，之后它可能被下一个持有者覆盖。
func (m *Mutex) spinRelease(actor xsched.ActorID) {
	prev := m.savedIntr.Swap(false)
	m.state.Store(0)
	m.opts.platform.RestoreInterrupts(actor, prev)
}
