// Package lockcore 提供锁原语包共享的内核功能。
//
// 本包是 internal 包，仅供 xmutex、xsv、xsched 使用。
//
// 主要功能：
//   - ProgrammingError：契约违规（销毁持有中的锁、自旋超时、未知类型等）。
//     契约违规不可恢复，[Fatal] 记录带堆栈的日志后 panic。
//   - SpinLock：原子自旋锁，用于保护原语自身的簿记字段，从不跨挂起点持有。
//   - Backoff：自旋等待的退避步进。
package lockcore
