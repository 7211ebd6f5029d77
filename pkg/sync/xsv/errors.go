package xsv

import "errors"

// 以下错误均为契约违规，经 lockcore.ProgrammingError 包装后 panic。
var (
	// ErrUnknownOrder 表示未知的队列顺序。
	ErrUnknownOrder = errors.New("xsv: unknown order")

	// ErrNilMonitor 表示未提供监视锁。
	ErrNilMonitor = errors.New("xsv: nil monitor")

	// ErrNoScheduler 表示未配置调度器。
	ErrNoScheduler = errors.New("xsv: scheduler required")

	// ErrUninitialized 表示使用了未初始化的同步变量。
	ErrUninitialized = errors.New("xsv: sync variable not initialized")

	// ErrAlreadyInitialized 表示重复初始化存活的同步变量。
	ErrAlreadyInitialized = errors.New("xsv: sync variable already initialized")

	// ErrDestroyed 表示使用了已销毁的同步变量。
	ErrDestroyed = errors.New("xsv: sync variable destroyed")

	// ErrDoubleDestroy 表示重复销毁。
	ErrDoubleDestroy = errors.New("xsv: sync variable destroyed twice")

	// ErrBusy 表示销毁时内部锁正被使用。
	ErrBusy = errors.New("xsv: sync variable in use")

	// ErrWaitersPending 表示销毁时仍有等待者。
	ErrWaitersPending = errors.New("xsv: waiters pending")

	// ErrMonitorNotHeld 表示调用方未持有监视锁。
	ErrMonitorNotHeld = errors.New("xsv: monitor not held by caller")

	// ErrMonitorRecursive 表示监视锁被递归持有，一次释放无法让出。
	ErrMonitorRecursive = errors.New("xsv: monitor held recursively")

	// ErrSleepMasked 表示在中断被屏蔽时等待。
	ErrSleepMasked = errors.New("xsv: wait with interrupts disabled")

	// ErrInvalidActor 表示执行体 ID 非法。
	ErrInvalidActor = errors.New("xsv: invalid actor")
)

// ErrInvalidSemaphoreSize 表示信号量容量非法（作为错误返回）。
var ErrInvalidSemaphoreSize = errors.New("xsv: semaphore size must be positive")
