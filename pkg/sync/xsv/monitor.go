package xsv

import (
	"context"
	"fmt"
	"strconv"

	"github.com/omeyang/xlockkit/pkg/sched/xsched"
	"github.com/omeyang/xlockkit/pkg/sync/xmutex"
)

// MonitorKind 监视锁类型。
type MonitorKind int

const (
	// MonitorSpinLock 自旋 xmutex.Mutex。
	MonitorSpinLock MonitorKind = iota + 1
	// MonitorMutex 阻塞 xmutex.Mutex。
	MonitorMutex
	// MonitorSemaphore 计数信号量。
	MonitorSemaphore
)

func (k MonitorKind) String() string {
	switch k {
	case MonitorSpinLock:
		return "spinlock"
	case MonitorMutex:
		return "mutex"
	case MonitorSemaphore:
		return "semaphore"
	default:
		return "MonitorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Monitor 同步变量使用的监视锁能力集。
// 接口是封闭的，只能通过 MutexMonitor 与 SemaphoreMonitor 构造。
type Monitor interface {
	// Kind 返回监视锁类型。
	Kind() MonitorKind
	// Acquire 以 actor 身份获取监视锁。
	Acquire(ctx context.Context, actor xsched.ActorID) error
	// Release 以 actor 身份释放监视锁。
	Release(ctx context.Context, actor xsched.ActorID)

	// check 检查 actor 持有监视锁；forWait 时还要求一次 Release 即可让出。
	// 无法检查的类型返回 nil。
	check(actor xsched.ActorID, forWait bool) error
}

// MutexMonitor 把 xmutex.Mutex 用作监视锁，类型由锁的 Kind 决定。
func MutexMonitor(m *xmutex.Mutex) Monitor {
	if m == nil {
		return nil
	}
	return mutexMonitor{m: m}
}

// SemaphoreMonitor 把 Semaphore 用作监视锁。
func SemaphoreMonitor(s *Semaphore) Monitor {
	if s == nil {
		return nil
	}
	return semaphoreMonitor{s: s}
}

type mutexMonitor struct {
	m *xmutex.Mutex
}

func (mm mutexMonitor) Kind() MonitorKind {
	if mm.m.Kind() == xmutex.KindSpin {
		return MonitorSpinLock
	}
	return MonitorMutex
}

func (mm mutexMonitor) Acquire(ctx context.Context, actor xsched.ActorID) error {
	mm.m.Acquire(ctx, actor)
	return nil
}

func (mm mutexMonitor) Release(ctx context.Context, actor xsched.ActorID) {
	mm.m.Release(ctx, actor)
}

func (mm mutexMonitor) check(actor xsched.ActorID, forWait bool) error {
	if owner := mm.m.Owner(); owner != actor {
		return fmt.Errorf("%w: %q owner=%d caller=%d", ErrMonitorNotHeld, mm.m.Name(), uint64(owner), uint64(actor))
	}
	if r := mm.m.Recursion(); forWait && r > 0 {
		return fmt.Errorf("%w: %q recursion=%d", ErrMonitorRecursive, mm.m.Name(), r)
	}
	return nil
}

type semaphoreMonitor struct {
	s *Semaphore
}

func (semaphoreMonitor) Kind() MonitorKind { return MonitorSemaphore }

func (sm semaphoreMonitor) Acquire(ctx context.Context, _ xsched.ActorID) error {
	return sm.s.Acquire(ctx)
}

func (sm semaphoreMonitor) Release(_ context.Context, _ xsched.ActorID) {
	sm.s.Release()
}

func (semaphoreMonitor) check(xsched.ActorID, bool) error { return nil }

// 编译期接口检查。
var (
	_ Monitor = mutexMonitor{}
	_ Monitor = semaphoreMonitor{}
)
