package xsched

import "github.com/omeyang/xlockkit/pkg/observability/xlog"

// Option 定义 Local 的可选配置。
type Option func(*options)

type options struct {
	logger      xlog.Logger
	suspendHook func(ActorID)
}

func defaultOptions() *options {
	return &options{}
}

// WithLogger 设置日志记录器，nil 时使用 xlog.Default()。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSuspendHook 设置 Suspend 入口回调。
// 回调在执行体真正阻塞之前、于挂起者自身的 goroutine 中同步执行，
// 用于观测"执行体被调度出去之前"的状态。回调内不得调用 Suspend。
func WithSuspendHook(fn func(ActorID)) Option {
	return func(o *options) {
		o.suspendHook = fn
	}
}
