package xsched

import (
	"context"
	"strconv"
	"time"
)

// ActorID 标识一个可被挂起和恢复的执行体。
type ActorID uint64

const (
	// NoActor 表示"无执行体"，用作锁的空持有者。
	NoActor ActorID = 0

	// ReservedBit 最高位保留给锁的持有者字（contested 标志），合法 ID 不得占用。
	ReservedBit ActorID = 1 << 63

	// SystemActor 保留给库内部操作（如销毁前的无竞争探测），不会由 Local 分配。
	SystemActor ActorID = ReservedBit - 1
)

// Valid 报告 id 是否可作为执行体 ID。
func (id ActorID) Valid() bool {
	return id != NoActor && id&ReservedBit == 0
}

// Priority 调度优先级，数值越小越紧急。
type Priority int

// State 执行体调度状态。
type State int32

const (
	// Running 可运行或正在运行。
	Running State = iota
	// SleepInterruptible 可中断睡眠：中断或 ctx 取消会唤醒。
	SleepInterruptible
	// SleepUninterruptible 不可中断睡眠：只响应 Resume 和超时。
	SleepUninterruptible
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case SleepInterruptible:
		return "sleep_interruptible"
	case SleepUninterruptible:
		return "sleep_uninterruptible"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// WakeReason 说明 Suspend 为何返回。
type WakeReason int

const (
	// WakeResumed 被 Resume 唤醒（也可能是先前遗留的许可，即伪唤醒）。
	WakeResumed WakeReason = iota
	// WakeTimedOut 超时。
	WakeTimedOut
	// WakeInterrupted 可中断睡眠被中断或 ctx 取消。
	WakeInterrupted
)

func (r WakeReason) String() string {
	switch r {
	case WakeResumed:
		return "resumed"
	case WakeTimedOut:
		return "timed_out"
	case WakeInterrupted:
		return "interrupted"
	default:
		return "WakeReason(" + strconv.Itoa(int(r)) + ")"
	}
}

//go:generate mockgen -destination=../../../internal/mocks/mock_scheduler.go -package=mocks . Scheduler

// Scheduler 锁原语消费的调度器契约。所有方法都必须并发安全。
type Scheduler interface {
	// Suspend 挂起 actor 直到被唤醒。timeout <= 0 表示不超时。
	// hint 是挂起时的优先级提示。睡眠的可中断性由此前的 SetState 决定，
	// 未标记时按不可中断处理。返回时 actor 状态恢复为 Running。
	Suspend(ctx context.Context, actor ActorID, hint Priority, timeout time.Duration) WakeReason

	// Resume 唤醒 actor。若 actor 尚未挂起，唤醒被保留给下一次 Suspend。
	Resume(actor ActorID)

	// Priority 返回 actor 当前的有效优先级。
	Priority(actor ActorID) Priority

	// SetPriority 设置 actor 的有效优先级。
	SetPriority(actor ActorID, p Priority)

	// Requeue 在优先级变化后重新定位可运行的 actor。
	Requeue(actor ActorID)

	// SetState 标记 actor 的调度状态。
	SetState(actor ActorID, st State)
}
