package xmutex

import (
	"sync/atomic"

	"github.com/emirpasic/gods/lists/doublylinkedlist"

	"github.com/omeyang/xlockkit/pkg/sched/xsched"
)

// waiter 是一个阻塞执行体的排队记录。
// 记录归挂起者的栈帧所有，队列只持有引用；交接后队列不再引用它。
type waiter struct {
	actor   xsched.ActorID
	pri     xsched.Priority
	granted atomic.Bool // 交接完成，所有权已属于 actor
}

// waitQueue 按优先级升序排列，同优先级按到达顺序。调用方持有 Mutex.ilock。
type waitQueue struct {
	list *doublylinkedlist.List
}

func newWaitQueue() waitQueue {
	return waitQueue{list: doublylinkedlist.New()}
}

// insert 把 w 放在所有优先级 <= w.pri 的等待者之后。
func (q *waitQueue) insert(w *waiter) {
	idx := q.list.Size()
	it := q.list.Iterator()
	for it.Next() {
		if it.Value().(*waiter).pri > w.pri {
			idx = it.Index()
			break
		}
	}
	q.list.Insert(idx, w)
}

func (q *waitQueue) front() *waiter {
	v, ok := q.list.Get(0)
	if !ok {
		return nil
	}
	return v.(*waiter)
}

func (q *waitQueue) popFront() *waiter {
	w := q.front()
	if w != nil {
		q.list.Remove(0)
	}
	return w
}

func (q *waitQueue) indexOf(actor xsched.ActorID) int {
	it := q.list.Iterator()
	for it.Next() {
		if it.Value().(*waiter).actor == actor {
			return it.Index()
		}
	}
	return -1
}

// reposition 更新 actor 的优先级并重新排队。actor 不在队列中时返回 false。
func (q *waitQueue) reposition(actor xsched.ActorID, pri xsched.Priority) bool {
	idx := q.indexOf(actor)
	if idx < 0 {
		return false
	}
	v, _ := q.list.Get(idx)
	w := v.(*waiter)
	q.list.Remove(idx)
	w.pri = pri
	q.insert(w)
	return true
}

func (q *waitQueue) len() int {
	return q.list.Size()
}

// actors 返回队列中的执行体，空队列返回 nil。
func (q *waitQueue) actors() []xsched.ActorID {
	if q.list.Empty() {
		return nil
	}
	out := make([]xsched.ActorID, 0, q.list.Size())
	it := q.list.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*waiter).actor)
	}
	return out
}
