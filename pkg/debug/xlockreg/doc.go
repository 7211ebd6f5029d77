// Package xlockreg 提供进程级锁原语诊断注册表。
//
// 注册表登记所有存活的 xmutex.Mutex 与 xsv.SyncVar，用于内省和不变式校验：
//
//   - [Registry.List]：列出存活原语（对应 list_live_mutexes）
//   - [Registry.Validate]：校验单个原语的数据不变式
//   - [Registry.Held]：报告原语当前是否被持有（销毁前断言使用）
//
// # 生命周期
//
// 全局注册表需要显式启用：[Enable] 创建，[Disable] 拆除，[Global] 读取（未启用时为 nil）。
// 原语在创建时读取 [Global]，之后不再随全局注册表切换。
// 也可以用 [New] 创建私有注册表并通过原语的 WithRegistry 选项注入。
//
// # 编译裁剪
//
// 使用构建标签 xlockreg_off 编译时，全局注册表被裁剪：
// [Enable] 返回 [ErrCompiledOut]，[Global] 恒为 nil，原语不产生任何注册开销。
//
// # 实现
//
// 与 xkeylock 相同的分片 map：句柄经 xxhash 映射到分片，每个分片独立加锁，
// 分片之间以 cache line 填充隔离，避免伪共享。
package xlockreg
