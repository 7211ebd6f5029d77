package xmutex

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xlockkit/pkg/debug/xlockreg"
	"github.com/omeyang/xlockkit/pkg/observability/xlog"
	"github.com/omeyang/xlockkit/pkg/sched/xsched"
)

// defaultSpinTimeout 自旋获取的默认时间预算
const defaultSpinTimeout = 2 * time.Second

// Defaults 包级默认值，New/Init 时读取。xlockconf.Config.Apply 通过 SetDefaults 更新。
type Defaults struct {
	// SpinTimeout 自旋获取的时间预算，必须 > 0。
	SpinTimeout time.Duration
	// SpinLimit 自旋获取的迭代预算，0 表示不限制。
	SpinLimit int
}

var defaults atomic.Pointer[Defaults]

func init() {
	defaults.Store(&Defaults{SpinTimeout: defaultSpinTimeout})
}

// SetDefaults 替换包级默认值，只影响之后创建的锁。
func SetDefaults(d Defaults) error {
	if d.SpinTimeout <= 0 {
		return fmt.Errorf("%w: spin timeout must be positive, got %s", ErrInvalidDefaults, d.SpinTimeout)
	}
	if d.SpinLimit < 0 {
		return fmt.Errorf("%w: spin limit must be >= 0, got %d", ErrInvalidDefaults, d.SpinLimit)
	}
	defaults.Store(&d)
	return nil
}

// CurrentDefaults 返回当前包级默认值。
func CurrentDefaults() Defaults {
	return *defaults.Load()
}

// Option 定义 Mutex 可选配置。
type Option func(*options)

type options struct {
	scheduler      xsched.Scheduler
	platform       xsched.Platform
	registry       *xlockreg.Registry
	registrySet    bool
	logger         xlog.Logger
	metrics        *Metrics
	tracerProvider trace.TracerProvider
	spinTimeout    time.Duration
	spinLimit      int
}

func defaultOptions() *options {
	d := CurrentDefaults()
	return &options{
		platform:    xsched.HostPlatform{},
		spinTimeout: d.SpinTimeout,
		spinLimit:   d.SpinLimit,
	}
}

// WithScheduler 设置调度器。阻塞锁必须设置。
func WithScheduler(s xsched.Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithPlatform 设置中断屏蔽能力，nil 被忽略。默认 xsched.HostPlatform。
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

// WithSpinTimeout 覆盖自旋时间预算，d <= 0 被忽略。
func WithSpinTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.spinTimeout = d
		}
	}
}

// WithSpinLimit 覆盖自旋迭代预算，n < 0 被忽略，0 表示不限制。
func WithSpinLimit(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.spinLimit = n
		}
	}
}
