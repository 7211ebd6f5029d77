package xsv

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Semaphore 计数信号量，可作为同步变量的监视锁。
// 许可不记录持有者，"调用方持有许可"只能作为前置条件约定。
type Semaphore struct {
	w    *semaphore.Weighted
	size int64
}

// NewSemaphore 创建容量为 size 的信号量。
func NewSemaphore(size int64) (*Semaphore, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSemaphoreSize, size)
	}
	return &Semaphore{w: semaphore.NewWeighted(size), size: size}, nil
}

// Acquire 获取一个许可，ctx 取消时返回 ctx.Err()。
func (s *Semaphore) Acquire(ctx context.Context) error {
	return s.w.Acquire(ctx, 1)
}

// TryAcquire 非阻塞获取一个许可。
func (s *Semaphore) TryAcquire() bool {
	return s.w.TryAcquire(1)
}

// Release 归还一个许可。归还多于获取会 panic。
func (s *Semaphore) Release() {
	s.w.Release(1)
}

// Size 返回信号量容量。
func (s *Semaphore) Size() int64 {
	return s.size
}
