// Package xmutex 提供支持自旋与阻塞两种获取方式的自适应互斥锁。
//
// # 特性
//
//   - 两种类型：[KindSpin] 忙等获取，持有期间屏蔽中断；[KindBlocking] 竞争时挂起调用方
//   - 递归获取：持有者重复 Acquire 只增加递归计数，需要相同次数的 Release
//   - 优先级传播：阻塞者沿"持有者 → 其阻塞的锁 → 该锁持有者"链提升优先级，限制优先级反转
//   - 直接交接：竞争状态下 Release 把所有权直接交给最高优先级等待者，第三方无法插队
//   - TryAcquire：非阻塞获取，从不排队
//   - 契约违规（销毁持有中的锁、自旋超时、非持有者释放、销毁后使用）以
//     [lockcore.ProgrammingError] panic，不作为错误返回
//
// # 持有者字
//
// 持有者 ID 与 contested 标志共用一个 64 位原子字（最高位为 contested）。
// 无竞争获取与释放各是一次 CAS；等待者入队前先置 contested 位，
// 使持有者的快速释放 CAS 失败并转入交接路径。
//
// # 优先级传播
//
// 等待队列按优先级升序排列，同优先级按到达顺序。
// 入队与交接在包级传播锁下进行，传播遍历可能涉及多把锁，
// 刻意保持为一个粗粒度临界区。首次被提升的执行体记录其基础优先级；
// 释放竞争锁时，持有者优先级重算为"仍持有的竞争锁中最高等待者优先级"与基础优先级中更紧急者。
//
// # 使用
//
//	sched := xsched.NewLocal()
//	me := sched.Spawn("worker", 10)
//	m := xmutex.New(xmutex.KindBlocking, "inode", xmutex.WithScheduler(sched))
//	m.Acquire(ctx, me)
//	defer m.Release(ctx, me)
//
// 结构体也可以内嵌在调用方的数据结构中，通过 [Mutex.Init] 初始化；本包不负责分配或释放宿主结构。
package xmutex
