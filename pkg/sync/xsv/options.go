package xsv

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xlockkit/pkg/debug/xlockreg"
	"github.com/omeyang/xlockkit/pkg/observability/xlog"
	"github.com/omeyang/xlockkit/pkg/sched/xsched"
)

// Option 定义 SyncVar 可选配置。
type Option func(*options)

type options struct {
	name           string
	scheduler      xsched.Scheduler
	platform       xsched.Platform
	registry       *xlockreg.Registry
	registrySet    bool
	logger         xlog.Logger
	metrics        *Metrics
	tracerProvider trace.TracerProvider
}

func defaultOptions() *options {
	return &options{name: "xsv", platform: xsched.HostPlatform{}}
}

// WithName 设置描述名称，用于日志、追踪与注册表。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithScheduler 设置调度器，必须设置。
func WithScheduler(s xsched.Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithPlatform 设置内部自旋锁使用的中断屏蔽能力，nil 被忽略。
func WithPlatform(p xsched.Platform) Option {
	return func(o *options) {
		if p != nil {
			o.platform = p
		}
	}
}

// WithRegistry 指定注册表；传 nil 表示不登记。
// 未设置时使用创建时刻的 xlockreg.Global()。
func WithRegistry(r *xlockreg.Registry) Option {
	return func(o *options) {
		o.registry = r
		o.registrySet = true
	}
}

// WithLogger 设置日志记录器，nil 时使用 xlog.Default()。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics 设置指标收集器（由 NewMetrics 创建），nil 表示不收集。
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracerProvider 设置 TracerProvider，nil 时使用全局 provider。
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WaitOption 定义单次 Wait 的参数。
type WaitOption func(*waitOptions)

type waitOptions struct {
	timeout       time.Duration
	interruptible bool
}

// WithTimeout 设置等待超时，d <= 0 表示不超时。
func WithTimeout(d time.Duration) WaitOption {
	return func(o *waitOptions) {
		o.timeout = d
	}
}

// Interruptible 以可中断睡眠等待：xsched 中断或 ctx 取消会以 Interrupted 结束等待。
func Interruptible() WaitOption {
	return func(o *waitOptions) {
		o.interruptible = true
	}
}
