package xsv

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xlockkit/internal/lockcore"
	"github.com/omeyang/xlockkit/pkg/debug/xlockreg"
	"github.com/omeyang/xlockkit/pkg/observability/xlog"
	"github.com/omeyang/xlockkit/pkg/sched/xsched"
	"github.com/omeyang/xlockkit/pkg/sync/xmutex"
)

// Order 等待队列顺序，初始化后不可变。
type Order int

const (
	// FIFO 先等待者先被唤醒。
	FIFO Order = iota + 1
	// LIFO 后等待者先被唤醒。
	LIFO
)

func (o Order) String() string {
	switch o {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	default:
		return "Order(" + strconv.Itoa(int(o)) + ")"
	}
}

// Outcome Wait 的结果。
type Outcome int

const (
	// Signaled 被 Signal 或 Broadcast 唤醒（也包括与超时、中断竞争获胜的信号）。
	Signaled Outcome = iota + 1
	// TimedOut 超时。
	TimedOut
	// Interrupted 可中断等待被中断或 ctx 取消。
	Interrupted
)

func (o Outcome) String() string {
	switch o {
	case Signaled:
		return "signaled"
	case TimedOut:
		return "timed_out"
	case Interrupted:
		return "interrupted"
	default:
		return "Outcome(" + strconv.Itoa(int(o)) + ")"
	}
}

const (
	opInit    = "init"
	opWait    = "wait"
	opDestroy = "destroy"
)

// waiter 排队记录，归等待者的栈帧所有。dequeued 只在内部锁下置位。
type waiter struct {
	actor    xsched.ActorID
	dequeued atomic.Bool
}

// SyncVar 同步变量。零值不可用，需经 New 或 Init 初始化。不可复制。
type SyncVar struct {
	order     Order
	monitor   Monitor
	internal  xmutex.Mutex // 私有自旋锁，保护 waiters
	waiters   *doublylinkedlist.List
	queued    atomic.Int32
	inited    bool
	destroyed atomic.Bool
	closing   atomic.Bool // Destroy 进行中，串行化并发的 Destroy
	reg       *xlockreg.Registry
	handle    xlockreg.Handle
	opts      *options
	tracer    trace.Tracer
}

// New 创建并初始化同步变量。
func New(order Order, monitor Monitor, opts ...Option) *SyncVar {
	v := &SyncVar{}
	v.Init(order, monitor, opts...)
	return v
}

// Init 初始化内嵌在宿主结构中的同步变量，等待队列为空。
// 监视锁能力在此选定，之后不再改变。
func (v *SyncVar) Init(order Order, monitor Monitor, opts ...Option) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	ctx := context.Background()
	switch {
	case v.inited && !v.destroyed.Load():
		lockcore.Fatal(ctx, o.logger, opInit, o.name, ErrAlreadyInitialized)
	case order != FIFO && order != LIFO:
		lockcore.Fatal(ctx, o.logger, opInit, o.name, fmt.Errorf("%w: %d", ErrUnknownOrder, int(order)))
	case monitor == nil:
		lockcore.Fatal(ctx, o.logger, opInit, o.name, ErrNilMonitor)
	case o.scheduler == nil:
		lockcore.Fatal(ctx, o.logger, opInit, o.name, ErrNoScheduler)
	}
	if !o.registrySet {
		o.registry = xlockreg.Global()
	}

	v.order = order
	v.monitor = monitor
	v.internal.Init(xmutex.KindSpin, o.name+".internal",
		xmutex.WithRegistry(nil),
		xmutex.WithPlatform(o.platform),
		xmutex.WithLogger(o.logger))
	v.waiters = doublylinkedlist.New()
	v.queued.Store(0)
	v.destroyed.Store(false)
	v.closing.Store(false)
	v.opts = o
	v.tracer = getTracer(o.tracerProvider)
	v.reg = o.registry
	v.handle = 0
	if v.reg != nil {
		v.handle, _ = v.reg.Register(v) //nolint:errcheck // v 非 nil
	}
	v.inited = true
}

// Order 返回队列顺序。
func (v *SyncVar) Order() Order { return v.order }

// Monitor 返回监视锁。
func (v *SyncVar) Monitor() Monitor { return v.monitor }

// Name 返回描述名称。
func (v *SyncVar) Name() string {
	if v.opts == nil {
		return ""
	}
	return v.opts.name
}

// Handle 返回注册表句柄，未登记时为 0。
func (v *SyncVar) Handle() xlockreg.Handle { return v.handle }

// Len 返回等待者数量（瞬时快照）。
func (v *SyncVar) Len() int {
	return int(v.queued.Load())
}

// Waiters 以 actor 身份在内部锁下返回等待者，按唤醒顺序。
func (v *SyncVar) Waiters(ctx context.Context, actor xsched.ActorID) []xsched.ActorID {
	if ctx == nil {
		ctx = context.Background()
	}
	v.checkLive(ctx, "waiters", actor)
	v.internal.Acquire(ctx, actor)
	defer v.internal.Release(ctx, actor)
	if v.waiters.Empty() {
		return nil
	}
	out := make([]xsched.ActorID, 0, v.waiters.Size())
	it := v.waiters.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*waiter).actor)
	}
	return out
}

// LockName 实现 xlockreg.Subject。
func (v *SyncVar) LockName() string { return v.Name() }

// LockState 实现 xlockreg.Subject。
func (v *SyncVar) LockState() xlockreg.State {
	return xlockreg.State{
		Kind:      xlockreg.KindSyncVar,
		Owner:     uint64(v.internal.Owner()),
		Recursion: v.internal.Recursion(),
		Waiters:   v.Len(),
		Destroyed: v.destroyed.Load(),
	}
}

func (v *SyncVar) fatal(ctx context.Context, op string, err error) {
	var logger xlog.Logger
	if v.opts != nil {
		logger = v.opts.logger
	}
	lockcore.Fatal(ctx, logger, op, v.Name(), err)
}

func (v *SyncVar) checkLive(ctx context.Context, op string, actor xsched.ActorID) {
	if !v.inited {
		v.fatal(ctx, op, ErrUninitialized)
	}
	if v.destroyed.Load() {
		v.fatal(ctx, op, ErrDestroyed)
	}
	if !actor.Valid() {
		v.fatal(ctx, op, fmt.Errorf("%w: %d", ErrInvalidActor, uint64(actor)))
	}
}

// Wait 挂起 actor 直到被唤醒、超时或（可中断时）被中断。
// 调用方必须持有监视锁；Wait 在释放监视锁之前入队。返回时监视锁未被重新获取。
func (v *SyncVar) Wait(ctx context.Context, actor xsched.ActorID, opts ...WaitOption) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	v.checkLive(ctx, opWait, actor)
	var wo waitOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&wo)
		}
	}
	if err := v.monitor.check(actor, true); err != nil {
		v.fatal(ctx, opWait, err)
	}

	start := time.Now()
	ctx, span := startSpan(ctx, v.tracer, spanNameWait)
	defer span.End()
	span.SetAttributes(
		attribute.String(attrName, v.Name()),
		attribute.Int64(attrActor, int64(actor)),
		attribute.String(attrOrder, v.order.String()),
		attribute.String(attrMonitor, v.monitor.Kind().String()),
		attribute.Float64(attrTimeout, wo.timeout.Seconds()),
		attribute.Bool(attrInterruptible, wo.interruptible),
	)

	st := xsched.SleepUninterruptible
	if wo.interruptible {
		st = xsched.SleepInterruptible
	}
	sched := v.opts.scheduler
	w := &waiter{actor: actor}

	v.internal.Acquire(ctx, actor)
	if v.order == LIFO {
		v.waiters.Prepend(w)
	} else {
		v.waiters.Append(w)
	}
	queued := v.queued.Add(1)
	sched.SetState(actor, st)
	// 内部锁先于监视锁释放，嵌套的中断屏蔽按后进先出恢复
	v.internal.Release(ctx, actor)
	v.monitor.Release(ctx, actor)

	if !v.opts.platform.InterruptsEnabled(actor) {
		v.remove(ctx, w)
		sched.SetState(actor, xsched.Running)
		v.fatal(ctx, opWait, ErrSleepMasked)
	}

	xlog.OrDefault(v.opts.logger).Debug(ctx, "sync variable wait",
		xlog.Lock(v.Name()), xlog.Actor(uint64(actor)), xlog.Count(int(queued)),
		xlog.Duration(wo.timeout))

	outcome := v.sleep(ctx, w, st, wo.timeout)

	elapsed := time.Since(start)
	span.SetAttributes(attribute.String(attrOutcome, outcome.String()))
	v.opts.metrics.recordWait(ctx, outcome, elapsed)
	xlog.OrDefault(v.opts.logger).Debug(ctx, "sync variable woken",
		xlog.Lock(v.Name()), xlog.Actor(uint64(w.actor)),
		xlog.Operation(outcome.String()), xlog.Duration(elapsed))
	return outcome
}

// sleep 挂起直到 w 被出队、超时或中断。
// 未出队时的 WakeResumed 是伪唤醒，按剩余时间继续挂起。
func (v *SyncVar) sleep(ctx context.Context, w *waiter, st xsched.State, timeout time.Duration) Outcome {
	sched := v.opts.scheduler
	hint := sched.Priority(w.actor)
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	remaining := timeout
	for {
		reason := sched.Suspend(ctx, w.actor, hint, remaining)
		if w.dequeued.Load() {
			return Signaled
		}
		if reason == xsched.WakeResumed {
			if timeout <= 0 {
				sched.SetState(w.actor, st)
				continue
			}
			if remaining = time.Until(deadline); remaining > 0 {
				sched.SetState(w.actor, st)
				continue
			}
			reason = xsched.WakeTimedOut
		}
		if !v.remove(ctx, w) {
			// 信号在超时或中断之前已将 w 出队
			return Signaled
		}
		if reason == xsched.WakeTimedOut {
			return TimedOut
		}
		return Interrupted
	}
}

// remove 在内部锁下把 w 移出队列，w 已被出队时返回 false。
func (v *SyncVar) remove(ctx context.Context, w *waiter) bool {
	v.internal.Acquire(ctx, w.actor)
	defer v.internal.Release(ctx, w.actor)
	if w.dequeued.Load() {
		return false
	}
	if idx := v.waiters.IndexOf(w); idx >= 0 {
		v.waiters.Remove(idx)
		v.queued.Add(-1)
	}
	w.dequeued.Store(true)
	return true
}

// Signal 唤醒队首等待者，返回被唤醒的数量（0 或 1）。
// 调用方必须持有监视锁。
func (v *SyncVar) Signal(ctx context.Context, actor xsched.ActorID) int {
	return v.wake(ctx, actor, opSignal, 1)
}

// Broadcast 唤醒全部等待者，返回被唤醒的数量。
// 调用方必须持有监视锁。
func (v *SyncVar) Broadcast(ctx context.Context, actor xsched.ActorID) int {
	return v.wake(ctx, actor, opBroadcast, -1)
}

// wake 出队至多 limit 个等待者（limit < 0 表示全部），释放内部锁后逐个唤醒。
func (v *SyncVar) wake(ctx context.Context, actor xsched.ActorID, op string, limit int) int {
	if ctx == nil {
		ctx = context.Background()
	}
	v.checkLive(ctx, op, actor)
	if err := v.monitor.check(actor, false); err != nil {
		v.fatal(ctx, op, err)
	}

	var woken []xsched.ActorID
	v.internal.Acquire(ctx, actor)
	for limit != 0 && !v.waiters.Empty() {
		head, _ := v.waiters.Get(0)
		v.waiters.Remove(0)
		v.queued.Add(-1)
		w := head.(*waiter)
		w.dequeued.Store(true)
		woken = append(woken, w.actor)
		limit--
	}
	v.internal.Release(ctx, actor)

	sched := v.opts.scheduler
	for _, a := range woken {
		sched.Resume(a)
	}
	if len(woken) > 0 {
		v.opts.metrics.recordWakeup(ctx, op, len(woken))
		xlog.OrDefault(v.opts.logger).Debug(ctx, "sync variable "+op,
			xlog.Lock(v.Name()), xlog.Actor(uint64(actor)), xlog.Count(len(woken)))
	}
	return len(woken)
}

// Destroy 销毁同步变量。要求内部锁可被无竞争获取且队列为空；
// 否则为契约违规，状态保持不变。
func (v *SyncVar) Destroy(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !v.inited {
		v.fatal(ctx, opDestroy, ErrUninitialized)
	}
	if v.destroyed.Load() || !v.closing.CompareAndSwap(false, true) {
		v.fatal(ctx, opDestroy, ErrDoubleDestroy)
	}
	if !v.internal.TryClaim(ctx, xsched.SystemActor) {
		v.closing.Store(false)
		v.fatal(ctx, opDestroy, fmt.Errorf("%w: internal lock owner=%d", ErrBusy, uint64(v.internal.Owner())))
	}
	if n := v.waiters.Size(); n > 0 {
		v.internal.Release(ctx, xsched.SystemActor)
		v.closing.Store(false)
		v.fatal(ctx, opDestroy, fmt.Errorf("%w: %d", ErrWaitersPending, n))
	}
	if v.reg != nil {
		if err := v.reg.Unregister(v.handle); err != nil {
			v.internal.Release(ctx, xsched.SystemActor)
			v.closing.Store(false)
			v.fatal(ctx, opDestroy, fmt.Errorf("%w: %w", ErrDoubleDestroy, err))
		}
	}
	v.destroyed.Store(true)
	v.internal.Release(ctx, xsched.SystemActor)
	v.internal.Destroy(ctx)
}

// 编译期接口检查。
var _ xlockreg.Subject = (*SyncVar)(nil)
