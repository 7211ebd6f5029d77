package xmutex

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xlockkit/internal/lockcore"
	"github.com/omeyang/xlockkit/pkg/debug/xlockreg"
	"github.com/omeyang/xlockkit/pkg/observability/xlog"
	"github.com/omeyang/xlockkit/pkg/sched/xsched"
)

// Kind 锁类型，初始化后不可变。
type Kind int

const (
	// KindSpin 忙等获取，持有期间屏蔽中断，从不挂起调用方。
	KindSpin Kind = iota + 1
	// KindBlocking 竞争时挂起调用方，支持优先级传播。
	KindBlocking
)

func (k Kind) String() string {
	switch k {
	case KindSpin:
		return xlockreg.KindSpin
	case KindBlocking:
		return xlockreg.KindBlocking
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsValid 报告 k 是否为已知类型。
func (k Kind) IsValid() bool {
	return k == KindSpin || k == KindBlocking
}

// contestedBit 持有者字的最高位：等待队列非空
const contestedBit = uint64(xsched.ReservedBit)

const (
	opInit       = "init"
	opAcquire    = "acquire"
	opTryAcquire = "try_acquire"
	opRelease    = "release"
	opDestroy    = "destroy"
)

// Mutex 自适应互斥锁。零值不可用，需经 New 或 Init 初始化。不可复制。
type Mutex struct {
	state     atomic.Uint64 // 持有者 ID | contestedBit
	recursion atomic.Int32  // 只由持有者修改
	savedIntr atomic.Bool   // 自旋锁获取前的中断状态，只由持有者修改
	kind      Kind
	name      string
	ilock     lockcore.SpinLock // 保护 waiters
	waiters   waitQueue
	inited    bool
	destroyed atomic.Bool
	reg       *xlockreg.Registry
	handle    xlockreg.Handle
	opts      *options
	tracer    trace.Tracer
}

// New 创建并初始化锁。
func New(kind Kind, name string, opts ...Option) *Mutex {
	m := &Mutex{}
	m.Init(kind, name, opts...)
	return m
}

// Init 初始化内嵌在宿主结构中的锁，结果为 Unowned。
// 未知 kind、阻塞锁缺少调度器、重复初始化存活的锁均为契约违规。
func (m *Mutex) Init(kind Kind, name string, opts ...Option) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	ctx := context.Background()
	if m.inited && !m.destroyed.Load() {
		lockcore.Fatal(ctx, o.logger, opInit, name, ErrAlreadyInitialized)
	}
	if !kind.IsValid() {
		lockcore.Fatal(ctx, o.logger, opInit, name, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind)))
	}
	if kind == KindBlocking && o.scheduler == nil {
		lockcore.Fatal(ctx, o.logger, opInit, name, ErrNoScheduler)
	}
	if !o.registrySet {
		o.registry = xlockreg.Global()
	}

	m.state.Store(0)
	m.recursion.Store(0)
	m.savedIntr.Store(false)
	m.destroyed.Store(false)
	m.kind = kind
	m.name = name
	m.waiters = newWaitQueue()
	m.opts = o
	m.tracer = getTracer(o.tracerProvider)
	m.reg = o.registry
	m.handle = 0
	if m.reg != nil {
		// Register 只在 subject 为 nil 时失败
		m.handle, _ = m.reg.Register(m) //nolint:errcheck // m 非 nil
	}
	m.inited = true
}

// Kind 返回锁类型。
func (m *Mutex) Kind() Kind { return m.kind }

// Name 返回锁的描述名称。
func (m *Mutex) Name() string { return m.name }

// Handle 返回注册表句柄，未登记时为 0。
func (m *Mutex) Handle() xlockreg.Handle { return m.handle }

// Owner 返回当前持有者，无持有者时为 xsched.NoActor。
func (m *Mutex) Owner() xsched.ActorID {
	return xsched.ActorID(m.state.Load() &^ contestedBit)
}

// Contested 报告等待队列是否非空。
func (m *Mutex) Contested() bool {
	return m.state.Load()&contestedBit != 0
}

// Recursion 返回递归计数（持有者额外获取的次数）。
func (m *Mutex) Recursion() int {
	return int(m.recursion.Load())
}

// Waiters 返回等待队列中的执行体，按出队顺序。
func (m *Mutex) Waiters() []xsched.ActorID {
	m.ilock.Lock()
	defer m.ilock.Unlock()
	return m.waiters.actors()
}

// Snapshot 锁状态快照。
type Snapshot struct {
	Kind            Kind
	Owner           xsched.ActorID
	Recursion       int
	Contested       bool
	Waiters         []xsched.ActorID
	SavedInterrupts bool
	Destroyed       bool
}

// Snapshot 返回锁状态快照。各字段在簿记锁下读取，但持有者字可能在读取后立即变化。
func (m *Mutex) Snapshot() Snapshot {
	m.ilock.Lock()
	defer m.ilock.Unlock()
	s := m.state.Load()
	return Snapshot{
		Kind:            m.kind,
		Owner:           xsched.ActorID(s &^ contestedBit),
		Recursion:       int(m.recursion.Load()),
		Contested:       s&contestedBit != 0,
		Waiters:         m.waiters.actors(),
		SavedInterrupts: m.savedIntr.Load(),
		Destroyed:       m.destroyed.Load(),
	}
}

// LockName 实现 xlockreg.Subject。
func (m *Mutex) LockName() string { return m.name }

// LockState 实现 xlockreg.Subject。
func (m *Mutex) LockState() xlockreg.State {
	s := m.Snapshot()
	return xlockreg.State{
		Kind:      s.Kind.String(),
		Owner:     uint64(s.Owner),
		Recursion: s.Recursion,
		Contested: s.Contested,
		Waiters:   len(s.Waiters),
		Destroyed: s.Destroyed,
	}
}

func (m *Mutex) fatal(ctx context.Context, op string, err error) {
	var logger xlog.Logger
	if m.opts != nil {
		logger = m.opts.logger
	}
	lockcore.Fatal(ctx, logger, op, m.name, err)
}

// checkLive 校验锁已初始化、未销毁且 actor 合法。
func (m *Mutex) checkLive(ctx context.Context, op string, actor xsched.ActorID) {
	if !m.inited {
		m.fatal(ctx, op, ErrUninitialized)
	}
	if m.destroyed.Load() {
		m.fatal(ctx, op, ErrDestroyed)
	}
	if !actor.Valid() {
		m.fatal(ctx, op, fmt.Errorf("%w: %d", ErrInvalidActor, uint64(actor)))
	}
}

// Acquire 获取锁。持有者重复获取只增加递归计数。
// 自旋锁忙等（超出预算为契约违规）；阻塞锁在竞争时挂起 actor，直到所有权被交接给它。
func (m *Mutex) Acquire(ctx context.Context, actor xsched.ActorID) {
	if ctx == nil {
		ctx = context.Background()
	}
	m.checkLive(ctx, opAcquire, actor)
	if m.kind == KindSpin {
		m.spinAcquire(ctx, actor)
		return
	}
	m.blockingAcquire(ctx, actor)
}

// TryAcquire 非阻塞获取锁，成功返回 true。从不排队、从不挂起。
func (m *Mutex) TryAcquire(ctx context.Context, actor xsched.ActorID) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	m.checkLive(ctx, opTryAcquire, actor)
	if m.Owner() == actor {
		m.recursion.Add(1)
		m.opts.metrics.recordAcquire(ctx, m.kind, pathRecursive)
		return true
	}
	return m.claim(ctx, actor)
}

// TryClaim 非阻塞获取未被持有的锁，不接受递归重入：调用者已持有时同样返回 false。
func (m *Mutex) TryClaim(ctx context.Context, actor xsched.ActorID) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	m.checkLive(ctx, opTryAcquire, actor)
	return m.claim(ctx, actor)
}

// claim 单次 CAS 从 Unowned 取得所有权。
func (m *Mutex) claim(ctx context.Context, actor xsched.ActorID) bool {
	if m.kind == KindSpin {
		prev := m.opts.platform.DisableInterrupts(actor)
		if m.state.CompareAndSwap(0, uint64(actor)) {
			m.savedIntr.Store(prev)
			m.opts.metrics.recordAcquire(ctx, m.kind, pathSpin)
			return true
		}
		m.opts.platform.RestoreInterrupts(actor, prev)
		return false
	}
	if m.state.CompareAndSwap(0, uint64(actor)) {
		m.opts.metrics.recordAcquire(ctx, m.kind, pathFast)
		return true
	}
	return false
}

// Release 释放锁。递归获取需要相同次数的 Release。
// 有等待者时所有权直接交给最高优先级等待者。非持有者释放为契约违规。
func (m *Mutex) Release(ctx context.Context, actor xsched.ActorID) {
	if ctx == nil {
		ctx = context.Background()
	}
	m.checkLive(ctx, opRelease, actor)
	if owner := m.Owner(); owner != actor {
		m.fatal(ctx, opRelease, fmt.Errorf("%w: owner=%d caller=%d", ErrNotOwner, uint64(owner), uint64(actor)))
	}
	if r := m.recursion.Load(); r > 0 {
		m.recursion.Store(r - 1)
		return
	}
	if m.kind == KindSpin {
		m.spinRelease(actor)
		return
	}
	if m.state.CompareAndSwap(uint64(actor), 0) {
		return
	}
	m.handoff(ctx, actor)
}

// Destroy 销毁锁。要求锁处于 Unowned 且无等待者；否则为契约违规，锁状态保持不变。
func (m *Mutex) Destroy(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !m.inited {
		m.fatal(ctx, opDestroy, ErrUninitialized)
	}
	if m.destroyed.Load() {
		m.fatal(ctx, opDestroy, ErrDoubleDestroy)
	}
	if s := m.state.Load(); s != 0 {
		m.fatal(ctx, opDestroy, fmt.Errorf("%w: owner=%d contested=%t",
			ErrDestroyHeld, s&^contestedBit, s&contestedBit != 0))
	}
	if m.reg != nil {
		if m.reg.Held(m.handle) {
			m.fatal(ctx, opDestroy, ErrDestroyHeld)
		}
		if err := m.reg.Unregister(m.handle); err != nil {
			m.fatal(ctx, opDestroy, fmt.Errorf("%w: %w", ErrDoubleDestroy, err))
		}
	}
	m.destroyed.Store(true)
}

// 编译期接口检查。
var _ xlockreg.Subject = (*Mutex)(nil)
