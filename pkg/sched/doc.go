// Package sched 提供调度器协作契约相关的子包。
//
// 子包列表：
//   - xsched: Scheduler 与 Platform 接口，以及基于 goroutine 的参考调度器 Local
package sched
