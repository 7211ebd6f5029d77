package xmutex

import "errors"

// 以下错误均为契约违规，经 lockcore.ProgrammingError 包装后 panic。
var (
	// ErrUnknownKind 表示未知的锁类型。
	ErrUnknownKind = errors.New("xmutex: unknown kind")

	// ErrNoScheduler 表示阻塞锁未配置调度器。
	ErrNoScheduler = errors.New("xmutex: blocking mutex requires a scheduler")

	// ErrUninitialized 表示使用了未初始化的锁。
	ErrUninitialized = errors.New("xmutex: mutex not initialized")

	// ErrAlreadyInitialized 表示重复初始化存活的锁。
	ErrAlreadyInitialized = errors.New("xmutex: mutex already initialized")

	// ErrDestroyed 表示使用了已销毁的锁。
	ErrDestroyed = errors.New("xmutex: mutex destroyed")

	// ErrDoubleDestroy 表示重复销毁。
	ErrDoubleDestroy = errors.New("xmutex: mutex destroyed twice")

	// ErrDestroyHeld 表示销毁仍被持有或有等待者的锁。
	ErrDestroyHeld = errors.New("xmutex: destroying held mutex")

	// ErrNotOwner 表示非持有者释放锁。
	ErrNotOwner = errors.New("xmutex: release by non-owner")

	// ErrSpinTimeout 表示自旋获取超出预算。自旋锁只应被短暂持有。
	ErrSpinTimeout = errors.New("xmutex: spin acquire exceeded budget")

	// ErrSleepMasked 表示在中断被屏蔽时尝试阻塞。
	ErrSleepMasked = errors.New("xmutex: blocking acquire with interrupts disabled")

	// ErrInvalidActor 表示执行体 ID 非法。
	ErrInvalidActor = errors.New("xmutex: invalid actor")

	// ErrInvalidDefaults 表示 SetDefaults 的参数非法（非契约违规，作为错误返回）。
	ErrInvalidDefaults = errors.New("xmutex: invalid defaults")
)
