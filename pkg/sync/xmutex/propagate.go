package xmutex

import (
	"context"
	"sync"

	"github.com/omeyang/xlockkit/pkg/observability/xlog"
	"github.com/omeyang/xlockkit/pkg/sched/xsched"
)

// blockGraph 记录"执行体阻塞在哪把锁上"和"执行体持有哪些竞争锁"，
// 以及被提升者的基础优先级。所有字段只在 mu（包级传播锁）下访问。
//
// 锁顺序：blockGraph.mu → Mutex.ilock。持有 ilock 时不得获取 mu。
type blockGraph struct {
	mu        sync.Mutex
	blockedOn map[xsched.ActorID]*Mutex
	held      map[xsched.ActorID]map[*Mutex]struct{}
	base      map[xsched.ActorID]xsched.Priority
}

// graph 进程级传播状态。
var graph = &blockGraph{
	blockedOn: make(map[xsched.ActorID]*Mutex),
	held:      make(map[xsched.ActorID]map[*Mutex]struct{}),
	base:      make(map[xsched.ActorID]xsched.Priority),
}

func (g *blockGraph) addHeld(actor xsched.ActorID, m *Mutex) {
	set, ok := g.held[actor]
	if !ok {
		set = make(map[*Mutex]struct{})
		g.held[actor] = set
	}
	set[m] = struct{}{}
}

func (g *blockGraph) removeHeld(actor xsched.ActorID, m *Mutex) {
	set, ok := g.held[actor]
	if !ok {
		return
	}
	delete(set, m)
	if len(set) == 0 {
		delete(g.held, actor)
	}
}

// propagate 把优先级 p 沿阻塞链传递。调用方持有 g.mu。
//
// 从 m 的持有者 O 开始：若 O 不如 p 紧急则提升到 p；
// O 可运行时在就绪结构中重新定位并结束；O 阻塞在另一把锁上时，
// 先在那把锁的队列里重新定位 O，再从那把锁继续。
func (g *blockGraph) propagate(ctx context.Context, m *Mutex, p xsched.Priority) {
	sched := m.opts.scheduler
	for m != nil {
		owner := m.Owner()
		if owner == xsched.NoActor {
			return
		}
		cur := sched.Priority(owner)
		if cur <= p {
			return
		}
		if _, boosted := g.base[owner]; !boosted {
			g.base[owner] = cur
		}
		sched.SetPriority(owner, p)
		m.opts.metrics.recordPropagation(ctx)
		xlog.OrDefault(m.opts.logger).Debug(ctx, "priority propagated",
			xlog.Lock(m.name), xlog.Owner(uint64(owner)), xlog.Priority(int(p)))

		next := g.blockedOn[owner]
		if next == nil {
			sched.Requeue(owner)
			return
		}
		next.ilock.Lock()
		next.waiters.reposition(owner, p)
		next.ilock.Unlock()
		m = next
	}
}

// restore 重算 actor 释放竞争锁后的优先级：
// 仍持有的竞争锁中最紧急的等待者与基础优先级取更紧急者。
// 从未被提升的执行体不做调整。调用方持有 g.mu。
func (g *blockGraph) restore(sched xsched.Scheduler, actor xsched.ActorID) {
	base, boosted := g.base[actor]
	if !boosted {
		return
	}
	best := base
	for m := range g.held[actor] {
		m.ilock.Lock()
		if w := m.waiters.front(); w != nil && w.pri < best {
			best = w.pri
		}
		m.ilock.Unlock()
	}
	if len(g.held[actor]) == 0 {
		delete(g.base, actor)
	}
	if sched.Priority(actor) != best {
		sched.SetPriority(actor, best)
		sched.Requeue(actor)
	}
}
