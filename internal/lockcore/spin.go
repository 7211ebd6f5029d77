package lockcore

import (
	"runtime"
	"sync/atomic"
)

// activeSpins 让出 CPU 前的纯自旋次数
const activeSpins = 16

// SpinLock 原子自旋锁，零值可用。
// 只用于极短的簿记临界区，持有期间不得挂起。不可重入。
type SpinLock struct {
	state atomic.Uint32
}

// Lock 自旋直至获取锁。
func (l *SpinLock) Lock() {
	spins := 0
	for !l.TryLock() {
		Backoff(&spins)
	}
}

// TryLock 尝试一次获取，成功返回 true。
func (l *SpinLock) TryLock() bool {
	return l.state.Load() == 0 && l.state.CompareAndSwap(0, 1)
}

// Unlock 释放锁。
func (l *SpinLock) Unlock() {
	l.state.Store(0)
}

// Locked 报告锁当前是否被持有（瞬时快照）。
func (l *SpinLock) Locked() bool {
	return l.state.Load() != 0
}

// Backoff 推进一次自旋等待：前 activeSpins 次立即重试，之后让出处理器。
func Backoff(spins *int) {
	if *spins >= activeSpins {
		runtime.Gosched()
	}
	*spins++
}
