// Package xsv 提供同步变量（条件变量）：调用方持有监视锁时原子地挂起自己并释放该锁，
// 其它执行体在持有同一监视锁时通过 Signal/Broadcast 唤醒等待者。
//
// # 特性
//
//   - 队列顺序：[FIFO] 或 [LIFO]，初始化时固定
//   - 监视锁：自旋锁、阻塞锁（[MutexMonitor]）或计数信号量（[SemaphoreMonitor]），
//     能力集在初始化时选定，不再改变
//   - 超时与中断：[WithTimeout]、[Interruptible]
//   - 结果以 [Outcome] 返回：Signaled、TimedOut、Interrupted
//
// # 语义
//
// Wait 在释放监视锁之前入队，因此持有同一监视锁的 Signal 不会丢失。
// Wait 返回后监视锁不会被自动重新获取，调用方需要自行获取并重新检查条件：
//
//	mu.Acquire(ctx, me)
//	for !ready() {
//		cv.Wait(ctx, me)
//		mu.Acquire(ctx, me)
//	}
//	...
//	mu.Release(ctx, me)
//
// 任何唤醒都只意味着"重新检查条件"。信号与超时竞争时，已被信号出队的等待者报告 Signaled。
//
// 契约违规（未持有监视锁、销毁仍有等待者的同步变量、销毁后使用）以
// [lockcore.ProgrammingError] panic。
package xsv
