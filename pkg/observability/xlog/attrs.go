package xlog

import (
	"log/slog"
	"time"
)

// 常用属性 key
const (
	KeyError     = "error"
	KeyStack     = "stack"
	KeyDuration  = "duration"
	KeyComponent = "component"
	KeyOperation = "operation"
	KeyActor     = "actor"
	KeyOwner     = "owner"
	KeyPriority  = "priority"
	KeyLock      = "lock"
	KeyKind      = "kind"
	KeyCount     = "count"
)

// Err 创建错误属性，err 为 nil 时返回空属性（slog 会忽略）
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建人类可读的耗时属性
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 组件名称属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 操作名称属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Actor 执行体 ID 属性
func Actor(id uint64) slog.Attr {
	return slog.Uint64(KeyActor, id)
}

// Owner 锁持有者 ID 属性
func Owner(id uint64) slog.Attr {
	return slog.Uint64(KeyOwner, id)
}

// Priority 调度优先级属性
func Priority(p int) slog.Attr {
	return slog.Int(KeyPriority, p)
}

// Lock 锁名称属性
func Lock(name string) slog.Attr {
	return slog.String(KeyLock, name)
}

// Kind 锁类型属性
func Kind(kind string) slog.Attr {
	return slog.String(KeyKind, kind)
}

// Count 计数属性
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}
