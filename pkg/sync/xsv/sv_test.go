package xsv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xlockkit/internal/lockcore"
	"github.com/omeyang/xlockkit/pkg/debug/xlockreg"
	"github.com/omeyang/xlockkit/pkg/sched/xsched"
	"github.com/omeyang/xlockkit/pkg/sync/xmutex"
)

const waitFor = 2 * time.Second

func expectFatal(t *testing.T, target error, fn func()) {
	t.Helper()
	pe := lockcore.Recover(fn)
	require.NotNil(t, pe, "expected programming error %v", target)
	assert.ErrorIs(t, pe, target)
	assert.ErrorIs(t, pe, lockcore.ErrProgramming)
}

func waitLen(t *testing.T, v *SyncVar, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return v.Len() == n }, waitFor, time.Millisecond,
		"len=%d want=%d", v.Len(), n)
}

type result struct {
	actor   xsched.ActorID
	outcome Outcome
}

func TestOrderAndOutcomeString(t *testing.T) {
	assert.Equal(t, "fifo", FIFO.String())
	assert.Equal(t, "lifo", LIFO.String())
	assert.Equal(t, "Order(0)", Order(0).String())
	assert.Equal(t, "signaled", Signaled.String())
	assert.Equal(t, "timed_out", TimedOut.String())
	assert.Equal(t, "interrupted", Interrupted.String())
	assert.Equal(t, "spinlock", MonitorSpinLock.String())
	assert.Equal(t, "mutex", MonitorMutex.String())
	assert.Equal(t, "semaphore", MonitorSemaphore.String())
}

func TestInitErrors(t *testing.T) {
	sched := xsched.NewLocal()
	mu := xmutex.New(xmutex.KindSpin, "mu")

	expectFatal(t, ErrUnknownOrder, func() { New(Order(9), MutexMonitor(mu), WithScheduler(sched)) })
	expectFatal(t, ErrNilMonitor, func() { New(FIFO, MutexMonitor(nil), WithScheduler(sched)) })
	expectFatal(t, ErrNilMonitor, func() { New(FIFO, SemaphoreMonitor(nil), WithScheduler(sched)) })
	expectFatal(t, ErrNoScheduler, func() { New(FIFO, MutexMonitor(mu)) })

	v := New(FIFO, MutexMonitor(mu), WithScheduler(sched), WithName("twice"))
	expectFatal(t, ErrAlreadyInitialized, func() { v.Init(FIFO, MutexMonitor(mu), WithScheduler(sched)) })
	v.Destroy(context.Background())
	v.Init(LIFO, MutexMonitor(mu), WithScheduler(sched))
	assert.Equal(t, LIFO, v.Order())
}

func TestMonitorKind(t *testing.T) {
	sched := xsched.NewLocal()
	sem, err := NewSemaphore(1)
	require.NoError(t, err)

	assert.Equal(t, MonitorSpinLock, MutexMonitor(xmutex.New(xmutex.KindSpin, "s")).Kind())
	assert.Equal(t, MonitorMutex, MutexMonitor(xmutex.New(xmutex.KindBlocking, "b", xmutex.WithScheduler(sched))).Kind())
	assert.Equal(t, MonitorSemaphore, SemaphoreMonitor(sem).Kind())
}

// 场景 4：LIFO + 自旋监视锁，一次 Signal 唤醒后到的等待者。
func TestLIFOSpinMonitor(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	t1 := sched.Spawn("t1", 5)
	t2 := sched.Spawn("t2", 5)
	me := sched.Spawn("signaler", 5)
	s := xmutex.New(xmutex.KindSpin, "S")
	v := New(LIFO, MutexMonitor(s), WithScheduler(sched))

	results := make(chan result, 2)
	var g errgroup.Group
	wait := func(id xsched.ActorID) {
		g.Go(func() error {
			s.Acquire(ctx, id)
			results <- result{id, v.Wait(ctx, id)}
			return nil
		})
	}
	wait(t1)
	waitLen(t, v, 1)
	wait(t2)
	waitLen(t, v, 2)
	assert.Equal(t, []xsched.ActorID{t2, t1}, v.Waiters(ctx, me))

	s.Acquire(ctx, me)
	assert.Equal(t, 1, v.Signal(ctx, me))
	s.Release(ctx, me)
	first := <-results
	assert.Equal(t, result{t2, Signaled}, first)

	s.Acquire(ctx, me)
	assert.Equal(t, 1, v.Signal(ctx, me))
	s.Release(ctx, me)
	second := <-results
	assert.Equal(t, result{t1, Signaled}, second)

	require.NoError(t, g.Wait())
	assert.Zero(t, v.Len())
	v.Destroy(ctx)
}

func TestFIFOMutexMonitor(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	w1 := sched.Spawn("w1", 5)
	w2 := sched.Spawn("w2", 1)
	me := sched.Spawn("signaler", 5)
	mu := xmutex.New(xmutex.KindBlocking, "mu", xmutex.WithScheduler(sched))
	v := New(FIFO, MutexMonitor(mu), WithScheduler(sched))

	results := make(chan result, 2)
	var g errgroup.Group
	for i, id := range []xsched.ActorID{w1, w2} {
		g.Go(func() error {
			mu.Acquire(ctx, id)
			results <- result{id, v.Wait(ctx, id)}
			return nil
		})
		waitLen(t, v, i+1)
	}
	// 等待者已释放监视锁
	require.Eventually(t, func() bool { return mu.Owner() == xsched.NoActor }, waitFor, time.Millisecond)

	for _, want := range []xsched.ActorID{w1, w2} {
		mu.Acquire(ctx, me)
		assert.Equal(t, 1, v.Signal(ctx, me))
		mu.Release(ctx, me)
		assert.Equal(t, result{want, Signaled}, <-results)
	}
	require.NoError(t, g.Wait())
	v.Destroy(ctx)
}

// 场景 5：无信号时 Wait 在超时后返回 TimedOut，队列为空。
func TestWaitTimeout(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	a := sched.Spawn("a", 5)
	mu := xmutex.New(xmutex.KindBlocking, "mu", xmutex.WithScheduler(sched))
	v := New(FIFO, MutexMonitor(mu), WithScheduler(sched))

	mu.Acquire(ctx, a)
	start := time.Now()
	out := v.Wait(ctx, a, WithTimeout(10*time.Millisecond))
	assert.Equal(t, TimedOut, out)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Zero(t, v.Len())
	assert.Equal(t, xsched.NoActor, mu.Owner(), "monitor not reacquired")
	assert.Equal(t, xsched.Running, sched.State(a))
	v.Destroy(ctx)
}

func TestWaitInterrupt(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	mu := xmutex.New(xmutex.KindBlocking, "mu", xmutex.WithScheduler(sched))
	v := New(FIFO, MutexMonitor(mu), WithScheduler(sched))

	t.Run("interruptible", func(t *testing.T) {
		a := sched.Spawn("a", 5)
		done := make(chan Outcome, 1)
		go func() {
			mu.Acquire(ctx, a)
			done <- v.Wait(ctx, a, Interruptible())
		}()
		waitLen(t, v, 1)
		require.Eventually(t, func() bool { return sched.State(a) == xsched.SleepInterruptible }, waitFor, time.Millisecond)
		sched.Interrupt(a)
		assert.Equal(t, Interrupted, <-done)
		assert.Zero(t, v.Len())
	})

	t.Run("uninterruptible ignores interrupt", func(t *testing.T) {
		b := sched.Spawn("b", 5)
		done := make(chan Outcome, 1)
		go func() {
			mu.Acquire(ctx, b)
			done <- v.Wait(ctx, b, WithTimeout(30*time.Millisecond))
		}()
		waitLen(t, v, 1)
		sched.Interrupt(b)
		assert.Equal(t, TimedOut, <-done)
		assert.Zero(t, v.Len())
	})

	t.Run("context cancel", func(t *testing.T) {
		c := sched.Spawn("c", 5)
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		done := make(chan Outcome, 1)
		go func() {
			mu.Acquire(cctx, c)
			done <- v.Wait(cctx, c, Interruptible())
		}()
		waitLen(t, v, 1)
		cancel()
		assert.Equal(t, Interrupted, <-done)
		assert.Zero(t, v.Len())
	})
}

func TestBroadcast(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	me := sched.Spawn("me", 5)
	mu := xmutex.New(xmutex.KindBlocking, "mu", xmutex.WithScheduler(sched))
	v := New(FIFO, MutexMonitor(mu), WithScheduler(sched))

	mu.Acquire(ctx, me)
	assert.Zero(t, v.Signal(ctx, me), "signal on empty queue is a no-op")
	assert.Zero(t, v.Broadcast(ctx, me))
	mu.Release(ctx, me)

	const n = 3
	results := make(chan result, n)
	var g errgroup.Group
	for i := range n {
		id := sched.Spawn("w", 5)
		g.Go(func() error {
			mu.Acquire(ctx, id)
			results <- result{id, v.Wait(ctx, id)}
			return nil
		})
		waitLen(t, v, i+1)
	}

	mu.Acquire(ctx, me)
	assert.Equal(t, n, v.Broadcast(ctx, me))
	assert.Zero(t, v.Len())
	mu.Release(ctx, me)

	require.NoError(t, g.Wait())
	close(results)
	for r := range results {
		assert.Equal(t, Signaled, r.outcome)
	}
	v.Destroy(ctx)
}

func TestMonitorPreconditions(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	a := sched.Spawn("a", 5)
	b := sched.Spawn("b", 5)
	mu := xmutex.New(xmutex.KindBlocking, "mu", xmutex.WithScheduler(sched))
	v := New(FIFO, MutexMonitor(mu), WithScheduler(sched))

	expectFatal(t, ErrMonitorNotHeld, func() { v.Wait(ctx, a) })
	expectFatal(t, ErrMonitorNotHeld, func() { v.Signal(ctx, a) })

	mu.Acquire(ctx, a)
	expectFatal(t, ErrMonitorNotHeld, func() { v.Broadcast(ctx, b) })
	mu.Acquire(ctx, a)
	expectFatal(t, ErrMonitorRecursive, func() { v.Wait(ctx, a) })
	assert.Zero(t, v.Len(), "rejected wait never enqueues")
	mu.Release(ctx, a)
	mu.Release(ctx, a)

	expectFatal(t, ErrInvalidActor, func() { v.Signal(ctx, xsched.NoActor) })
	v.Destroy(ctx)
}

func TestWaitWithInterruptsMasked(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	a := sched.Spawn("a", 5)
	plat := xsched.NewSoftPlatform()
	outer := xmutex.New(xmutex.KindSpin, "outer", xmutex.WithPlatform(plat))
	mu := xmutex.New(xmutex.KindSpin, "mu", xmutex.WithPlatform(plat))
	v := New(FIFO, MutexMonitor(mu), WithScheduler(sched), WithPlatform(plat))

	outer.Acquire(ctx, a)
	mu.Acquire(ctx, a)
	expectFatal(t, ErrSleepMasked, func() { v.Wait(ctx, a) })
	assert.Zero(t, v.Len())
	assert.Equal(t, xsched.Running, sched.State(a))
	outer.Release(ctx, a)
	assert.True(t, plat.InterruptsEnabled(a))
	v.Destroy(ctx)
}

func TestWaitWhileOtherActorMasked(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	a := sched.Spawn("a", 5)
	b := sched.Spawn("b", 5)
	plat := xsched.NewSoftPlatform()
	other := xmutex.New(xmutex.KindSpin, "other", xmutex.WithPlatform(plat))
	mu := xmutex.New(xmutex.KindSpin, "mu", xmutex.WithPlatform(plat))
	v := New(FIFO, MutexMonitor(mu), WithScheduler(sched), WithPlatform(plat))

	other.Acquire(ctx, a)
	got := make(chan Outcome, 1)
	go func() {
		mu.Acquire(ctx, b)
		got <- v.Wait(ctx, b)
	}()

	require.Eventually(t, func() bool { return v.Len() == 1 }, waitFor, time.Millisecond)
	assert.Equal(t, 1, v.Signal(ctx, a))
	assert.Equal(t, Signaled, <-got)
	assert.True(t, plat.InterruptsEnabled(b))
	assert.False(t, plat.InterruptsEnabled(a), "a still holds other")
	other.Release(ctx, a)
	v.Destroy(ctx)
}

func TestSpinMonitorRestoresInterrupts(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	a := sched.Spawn("a", 5)
	plat := xsched.NewSoftPlatform()
	s := xmutex.New(xmutex.KindSpin, "S", xmutex.WithPlatform(plat))
	v := New(FIFO, MutexMonitor(s), WithScheduler(sched), WithPlatform(plat))

	s.Acquire(ctx, a)
	assert.False(t, plat.InterruptsEnabled(a))
	assert.Equal(t, TimedOut, v.Wait(ctx, a, WithTimeout(time.Millisecond)))
	assert.True(t, plat.InterruptsEnabled(a))
	v.Destroy(ctx)
}

func TestDestroyGuard(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	a := sched.Spawn("a", 5)
	me := sched.Spawn("me", 5)
	mu := xmutex.New(xmutex.KindBlocking, "mu", xmutex.WithScheduler(sched))
	v := New(FIFO, MutexMonitor(mu), WithScheduler(sched))

	done := make(chan Outcome, 1)
	go func() {
		mu.Acquire(ctx, a)
		done <- v.Wait(ctx, a)
	}()
	waitLen(t, v, 1)
	// 监视锁在内部锁之后释放
	require.Eventually(t, func() bool { return mu.Owner() == xsched.NoActor }, waitFor, time.Millisecond)

	expectFatal(t, ErrWaitersPending, func() { v.Destroy(ctx) })
	assert.Equal(t, 1, v.Len(), "state unchanged")
	assert.Equal(t, xsched.NoActor, v.internal.Owner(), "internal lock released")

	mu.Acquire(ctx, me)
	v.Signal(ctx, me)
	mu.Release(ctx, me)
	assert.Equal(t, Signaled, <-done)

	v.Destroy(ctx)
	expectFatal(t, ErrDoubleDestroy, func() { v.Destroy(ctx) })
	expectFatal(t, ErrDestroyed, func() { v.Wait(ctx, a) })
	expectFatal(t, ErrDestroyed, func() { v.Signal(ctx, a) })
}

func TestDestroyBusy(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	a := sched.Spawn("a", 5)
	sem, err := NewSemaphore(1)
	require.NoError(t, err)
	v := New(FIFO, SemaphoreMonitor(sem), WithScheduler(sched))

	v.internal.Acquire(ctx, a)
	expectFatal(t, ErrBusy, func() { v.Destroy(ctx) })
	v.internal.Release(ctx, a)
	v.Destroy(ctx)
}

func TestDestroyRejectsSystemActorHolder(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	sem, err := NewSemaphore(1)
	require.NoError(t, err)
	v := New(FIFO, SemaphoreMonitor(sem), WithScheduler(sched))

	v.internal.Acquire(ctx, xsched.SystemActor)
	expectFatal(t, ErrBusy, func() { v.Destroy(ctx) })
	assert.Equal(t, xsched.SystemActor, v.internal.Owner())
	assert.Zero(t, v.internal.Recursion())
	v.internal.Release(ctx, xsched.SystemActor)
	v.Destroy(ctx)
}

func TestConcurrentDestroy(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	sem, err := NewSemaphore(1)
	require.NoError(t, err)
	v := New(FIFO, SemaphoreMonitor(sem), WithScheduler(sched))

	const callers = 8
	errs := make([]error, callers)
	start := make(chan struct{})
	var g errgroup.Group
	for i := range callers {
		g.Go(func() error {
			<-start
			if pe := lockcore.Recover(func() { v.Destroy(ctx) }); pe != nil {
				errs[i] = pe
			}
			return nil
		})
	}
	close(start)
	require.NoError(t, g.Wait())

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrDoubleDestroy)
	}
	assert.Equal(t, 1, ok, "exactly one destroy succeeds")
	assert.True(t, v.LockState().Destroyed)
}

func TestUninitialized(t *testing.T) {
	var v SyncVar
	expectFatal(t, ErrUninitialized, func() { v.Signal(context.Background(), 1) })
	expectFatal(t, ErrUninitialized, func() { v.Destroy(context.Background()) })
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	a := sched.Spawn("a", 5)
	reg, err := xlockreg.New()
	require.NoError(t, err)
	sem, err := NewSemaphore(1)
	require.NoError(t, err)

	v := New(FIFO, SemaphoreMonitor(sem), WithScheduler(sched), WithRegistry(reg), WithName("queue.notempty"))
	require.NotZero(t, v.Handle())
	entries := reg.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "queue.notempty", entries[0].Name)
	assert.Equal(t, xlockreg.KindSyncVar, entries[0].State.Kind)

	require.NoError(t, sem.Acquire(ctx))
	assert.Equal(t, TimedOut, v.Wait(ctx, a, WithTimeout(time.Millisecond)))
	require.NoError(t, reg.Validate(v.Handle()))
	assert.False(t, reg.Held(v.Handle()))

	v.Destroy(ctx)
	assert.Zero(t, reg.Len())
}

// 有界缓冲区：两个同步变量共享一把阻塞监视锁。
func TestBoundedBuffer(t *testing.T) {
	ctx := context.Background()
	sched := xsched.NewLocal()
	mu := xmutex.New(xmutex.KindBlocking, "buffer", xmutex.WithScheduler(sched))
	notEmpty := New(FIFO, MutexMonitor(mu), WithScheduler(sched), WithName("not-empty"))
	notFull := New(FIFO, MutexMonitor(mu), WithScheduler(sched), WithName("not-full"))

	const (
		capacity  = 2
		producers = 3
		consumers = 3
		perActor  = 100
	)
	var (
		buf []int
		sum int
	)
	var g errgroup.Group
	for p := range producers {
		id := sched.Spawn("producer", xsched.Priority(p))
		g.Go(func() error {
			for i := range perActor {
				mu.Acquire(ctx, id)
				for len(buf) == capacity {
					notFull.Wait(ctx, id)
					mu.Acquire(ctx, id)
				}
				buf = append(buf, i)
				notEmpty.Signal(ctx, id)
				mu.Release(ctx, id)
			}
			return nil
		})
	}
	for c := range consumers {
		id := sched.Spawn("consumer", xsched.Priority(c))
		g.Go(func() error {
			for range perActor {
				mu.Acquire(ctx, id)
				for len(buf) == 0 {
					notEmpty.Wait(ctx, id)
					mu.Acquire(ctx, id)
				}
				sum += buf[0]
				buf = buf[1:]
				notFull.Signal(ctx, id)
				mu.Release(ctx, id)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Empty(t, buf)
	assert.Equal(t, producers*perActor*(perActor-1)/2, sum)
	assert.Zero(t, notEmpty.Len())
	assert.Zero(t, notFull.Len())
	notEmpty.Destroy(ctx)
	notFull.Destroy(ctx)
	mu.Destroy(ctx)
}
