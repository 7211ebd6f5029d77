// Package xsched 定义锁原语依赖的调度器协作契约，并提供基于 goroutine 的参考实现。
//
// # 契约
//
// [Scheduler] 是锁原语消费的全部调度能力：
//
//	Suspend      挂起执行体，直到 Resume、超时或（可中断睡眠时）中断
//	Resume       唤醒执行体；先于 Suspend 到达的唤醒不会丢失
//	Priority     读取执行体当前（有效）优先级，数值越小越紧急
//	SetPriority  设置执行体优先级（优先级传播使用）
//	Requeue      优先级变化后，在就绪结构中重新定位执行体
//	SetState     标记执行体调度状态（运行 / 可中断睡眠 / 不可中断睡眠）
//
// Go 没有可供挂接的内核调度器，也没有 goroutine 身份，
// 因此执行体由 [ActorID] 显式标识，调用方在每次锁操作时传入自己的 ID。
//
// # Local
//
// [Local] 以 goroutine 承载执行体：每个执行体持有一个单槽唤醒许可，
// Resume 先于 Suspend 到达时许可被保留，Suspend 立即返回。
// 中断是建议性的：只有处于可中断睡眠的执行体才会被 [Local.Interrupt] 或 ctx 取消唤醒，
// 不可中断睡眠期间中断保持挂起，直到下一次可中断睡眠。
//
// # Platform
//
// [Platform] 抽象中断屏蔽能力，自旋锁用它保存 / 恢复中断状态，
// 阻塞路径用它断言"不得在屏蔽中断时睡眠"。[HostPlatform] 为默认实现，
// [SoftPlatform] 按 actor 记录中断开关（对应每个 CPU 各自的屏蔽状态），可在测试中注入。
package xsched
