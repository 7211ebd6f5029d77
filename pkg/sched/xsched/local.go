package xsched

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xlockkit/internal/lockcore"
	"github.com/omeyang/xlockkit/pkg/observability/xlog"
)

// nextActorID 进程级单调递增，保证不同 Local 实例分配的 ID 不冲突。
var nextActorID atomic.Uint64

// actor 是 Local 中一个执行体的调度记录。
type actor struct {
	id       ActorID
	name     string
	pri      atomic.Int64
	state    atomic.Int32
	wake     chan struct{} // 单槽唤醒许可
	intr     chan struct{} // 单槽挂起中断
	requeues atomic.Int64
}

// Local 基于 goroutine 的 Scheduler 参考实现。
// 每个执行体由调用方的某个 goroutine 承载，Local 只负责挂起/唤醒与优先级簿记。
type Local struct {
	mu     sync.RWMutex
	actors map[ActorID]*actor
	opts   *options
}

// NewLocal 创建 Local 调度器。
func NewLocal(opts ...Option) *Local {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return &Local{
		actors: make(map[ActorID]*actor),
		opts:   o,
	}
}

// Spawn 注册一个新执行体并返回其 ID。
func (s *Local) Spawn(name string, pri Priority) ActorID {
	id := ActorID(nextActorID.Add(1))
	a := &actor{
		id:   id,
		name: name,
		wake: make(chan struct{}, 1),
		intr: make(chan struct{}, 1),
	}
	a.pri.Store(int64(pri))

	s.mu.Lock()
	s.actors[id] = a
	s.mu.Unlock()
	return id
}

// Exit 注销执行体。之后对该 ID 的任何调用都是契约违规。
func (s *Local) Exit(id ActorID) {
	s.mu.Lock()
	delete(s.actors, id)
	s.mu.Unlock()
}

// Name 返回执行体名称。
func (s *Local) Name(id ActorID) string {
	return s.lookup(id).name
}

func (s *Local) lookup(id ActorID) *actor {
	if !id.Valid() {
		lockcore.Fatal(context.Background(), s.opts.logger, "lookup", "xsched",
			fmt.Errorf("%w: %d", ErrInvalidActor, uint64(id)))
	}
	s.mu.RLock()
	a, ok := s.actors[id]
	s.mu.RUnlock()
	if !ok {
		lockcore.Fatal(context.Background(), s.opts.logger, "lookup", "xsched",
			fmt.Errorf("%w: %d", ErrUnknownActor, uint64(id)))
	}
	return a
}

// Suspend 实现 Scheduler。
func (s *Local) Suspend(ctx context.Context, id ActorID, hint Priority, timeout time.Duration) WakeReason {
	if ctx == nil {
		ctx = context.Background()
	}
	a := s.lookup(id)
	if s.opts.suspendHook != nil {
		s.opts.suspendHook(id)
	}

	st := State(a.state.Load())
	if st == Running {
		st = SleepUninterruptible
		a.state.Store(int32(st))
	}
	defer a.state.Store(int32(Running))

	xlog.OrDefault(s.opts.logger).Debug(ctx, "actor suspended",
		xlog.Actor(uint64(id)), xlog.Priority(int(hint)),
		xlog.Duration(timeout), xlog.Operation(st.String()))

	var timerC <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timerC = t.C
	}

	// nil channel 永不就绪：不可中断睡眠不监听中断与 ctx
	var intrC, doneC <-chan struct{}
	if st == SleepInterruptible {
		intrC = a.intr
		doneC = ctx.Done()
	}

	select {
	case <-a.wake:
		return WakeResumed
	case <-timerC:
		return WakeTimedOut
	case <-intrC:
		return WakeInterrupted
	case <-doneC:
		return WakeInterrupted
	}
}

// Resume 实现 Scheduler。许可已存在时本次唤醒被合并。
func (s *Local) Resume(id ActorID) {
	a := s.lookup(id)
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Interrupt 向执行体投递一次异步中断。
// 只有可中断睡眠会响应；否则中断保持挂起直到下一次可中断睡眠。
func (s *Local) Interrupt(id ActorID) {
	a := s.lookup(id)
	select {
	case a.intr <- struct{}{}:
	default:
	}
}

// Priority 实现 Scheduler。
func (s *Local) Priority(id ActorID) Priority {
	return Priority(s.lookup(id).pri.Load())
}

// SetPriority 实现 Scheduler。
func (s *Local) SetPriority(id ActorID, p Priority) {
	s.lookup(id).pri.Store(int64(p))
}

// Requeue 实现 Scheduler。goroutine 由 Go 运行时调度，Local 只记录重新定位次数。
func (s *Local) Requeue(id ActorID) {
	s.lookup(id).requeues.Add(1)
}

// Requeues 返回执行体被 Requeue 的累计次数。
func (s *Local) Requeues(id ActorID) int64 {
	return s.lookup(id).requeues.Load()
}

// SetState 实现 Scheduler。
func (s *Local) SetState(id ActorID, st State) {
	s.lookup(id).state.Store(int32(st))
}

// State 返回执行体当前调度状态。
func (s *Local) State(id ActorID) State {
	return State(s.lookup(id).state.Load())
}

// 编译期接口检查。
var _ Scheduler = (*Local)(nil)
