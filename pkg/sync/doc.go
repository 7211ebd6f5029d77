// Package sync 提供内核风格的同步原语子包。
//
// 子包列表：
//   - xmutex: 自适应互斥锁，支持自旋与阻塞两种获取方式、递归持有和优先级传播
//   - xsv: 同步变量，支持 FIFO/LIFO 等待队列以及超时和中断
//
// 设计原则：
//   - 阻塞与唤醒委托给 xsched.Scheduler，原语本身不创建 goroutine
//   - 使用错误属于编程错误，记录堆栈后 panic
package sync
