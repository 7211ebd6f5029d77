package xmutex_test

import (
	"context"
	"fmt"

	"github.com/omeyang/xlockkit/pkg/sched/xsched"
	"github.com/omeyang/xlockkit/pkg/sync/xmutex"
)

func ExampleMutex() {
	ctx := context.Background()
	sched := xsched.NewLocal()
	worker := sched.Spawn("worker", 5)

	m := xmutex.New(xmutex.KindBlocking, "table", xmutex.WithScheduler(sched))
	m.Acquire(ctx, worker)
	m.Acquire(ctx, worker) // 重入
	fmt.Println(m.Owner() == worker, m.Recursion())
	m.Release(ctx, worker)
	m.Release(ctx, worker)
	fmt.Println(m.Owner() == xsched.NoActor)
	m.Destroy(ctx)
	// Output:
	// true 1
	// true
}

func ExampleMutex_TryAcquire() {
	ctx := context.Background()
	m := xmutex.New(xmutex.KindSpin, "counter")
	fmt.Println(m.TryAcquire(ctx, 1))
	fmt.Println(m.TryAcquire(ctx, 2))
	m.Release(ctx, 1)
	// Output:
	// true
	// false
}
