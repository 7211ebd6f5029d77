package xmutex

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/omeyang/xlockkit/pkg/observability/xlog"
	"github.com/omeyang/xlockkit/pkg/sched/xsched"
)

// blockingAcquire 阻塞获取：递归 → 无竞争 CAS → 排队挂起。
func (m *Mutex) blockingAcquire(ctx context.Context, actor xsched.ActorID) {
	if m.Owner() == actor {
		m.recursion.Add(1)
		m.opts.metrics.recordAcquire(ctx, m.kind, pathRecursive)
		return
	}
	if m.state.CompareAndSwap(0, uint64(actor)) {
		m.opts.metrics.recordAcquire(ctx, m.kind, pathFast)
		return
	}
	if !m.opts.platform.InterruptsEnabled(actor) {
		m.fatal(ctx, opAcquire, ErrSleepMasked)
	}
	m.contend(ctx, actor)
}

// contend 竞争路径：入队后挂起，直到所有权被交接给 actor。
// 伪唤醒时 actor 仍在队列中，直接再次挂起，不重复入队。
func (m *Mutex) contend(ctx context.Context, actor xsched.ActorID) {
	start := time.Now()
	ctx, span := startSpan(ctx, m.tracer, spanNameContend)
	defer span.End()
	span.SetAttributes(
		attribute.String(attrLock, m.name),
		attribute.Int64(attrActor, int64(actor)),
	)

	sched := m.opts.scheduler
	for {
		w, hint := m.enqueue(ctx, actor)
		if w == nil {
			// 持有者在入队前已释放
			if m.state.CompareAndSwap(0, uint64(actor)) {
				break
			}
			continue
		}
		for !w.granted.Load() {
			sched.Suspend(ctx, actor, hint, 0)
		}
		break
	}

	elapsed := time.Since(start)
	span.SetAttributes(attribute.Float64(attrWaitSeconds, elapsed.Seconds()))
	m.opts.metrics.recordAcquire(ctx, m.kind, pathContended)
	m.opts.metrics.recordContention(ctx, elapsed)
}

// enqueue 在传播锁下把 actor 放入等待队列并执行优先级传播，
// 返回排队记录与入队时的优先级。锁已空闲时返回 nil，调用方重试 CAS。
// 入队后 w.pri 可能被传播改写，只能在 ilock 下读取。
func (m *Mutex) enqueue(ctx context.Context, actor xsched.ActorID) (*waiter, xsched.Priority) {
	sched := m.opts.scheduler
	graph.mu.Lock()
	defer graph.mu.Unlock()

	m.ilock.Lock()
	for {
		s := m.state.Load()
		if s == 0 {
			m.ilock.Unlock()
			return nil, 0
		}
		// 置 contested 位使持有者的快速释放失败，转入交接路径
		if s&contestedBit != 0 || m.state.CompareAndSwap(s, s|contestedBit) {
			break
		}
	}
	pri := sched.Priority(actor)
	w := &waiter{actor: actor, pri: pri}
	m.waiters.insert(w)
	owner := m.Owner()
	graph.blockedOn[actor] = m
	graph.addHeld(owner, m)
	sched.SetState(actor, xsched.SleepUninterruptible)
	queued := m.waiters.len()
	m.ilock.Unlock()

	xlog.OrDefault(m.opts.logger).Debug(ctx, "mutex contended",
		xlog.Lock(m.name), xlog.Actor(uint64(actor)), xlog.Owner(uint64(owner)),
		xlog.Priority(int(pri)), xlog.Count(queued))

	graph.propagate(ctx, m, pri)
	return w, pri
}

// handoff 竞争释放：队首等待者直接成为持有者，持有者字从不经过 Unowned。
func (m *Mutex) handoff(ctx context.Context, actor xsched.ActorID) {
	sched := m.opts.scheduler
	graph.mu.Lock()

	m.ilock.Lock()
	w := m.waiters.popFront()
	if w == nil {
		// contested 位只在入队时置位、在队列清空时清除，此处不应出现
		m.state.Store(0)
		m.ilock.Unlock()
		graph.mu.Unlock()
		return
	}
	next := uint64(w.actor)
	rest := m.waiters.len() > 0
	if rest {
		next |= contestedBit
	}
	m.state.Store(next)
	w.granted.Store(true)
	m.ilock.Unlock()

	delete(graph.blockedOn, w.actor)
	graph.removeHeld(actor, m)
	if rest {
		graph.addHeld(w.actor, m)
		m.ilock.Lock()
		headPri := m.waiters.front().pri
		m.ilock.Unlock()
		// 新持有者继承剩余等待者中最紧急的优先级
		graph.propagate(ctx, m, headPri)
	}
	graph.restore(sched, actor)
	graph.mu.Unlock()

	m.opts.metrics.recordHandoff(ctx)
	xlog.OrDefault(m.opts.logger).Debug(ctx, "mutex handed off",
		xlog.Lock(m.name), xlog.Actor(uint64(actor)), xlog.Owner(uint64(w.actor)))
	sched.Resume(w.actor)
}
