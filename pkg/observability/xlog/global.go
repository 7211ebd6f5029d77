package xlog

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
)

var (
	defaultLogger atomic.Pointer[LoggerWithLevel]
	defaultMu     sync.Mutex
)

func stderr() io.Writer { return os.Stderr }

// Default 返回全局 Logger，首次调用时惰性初始化（stderr、text 格式、Warn 级别）
func Default() LoggerWithLevel {
	if p := defaultLogger.Load(); p != nil {
		return *p
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if p := defaultLogger.Load(); p != nil {
		return *p
	}
	l := New(nil, LevelWarn)
	defaultLogger.Store(&l)
	return l
}

// SetDefault 替换全局 Logger，nil 被忽略
func SetDefault(l LoggerWithLevel) {
	if l == nil {
		return
	}
	defaultLogger.Store(&l)
}

// SetDefaultLevel 调整全局 Logger 的级别
func SetDefaultLevel(level Level) {
	Default().SetLevel(level)
}

// ResetDefault 重置为未初始化状态（仅用于测试）
func ResetDefault() {
	defaultLogger.Store(nil)
}

// OrDefault 返回 l，l 为 nil 时返回全局 Logger
func OrDefault(l Logger) Logger {
	if l != nil {
		return l
	}
	return Default()
}
