// Package xlog 基于 log/slog 的结构化日志库，供锁原语记录诊断信息。
//
// # 核心功能
//
//   - 强制 context 传递：所有方法第一个参数为 context.Context
//   - 类型安全：方法只接受 slog.Attr
//   - 动态级别：[Leveler] 支持运行时调整，派生 logger 共享级别
//   - 全局 Logger：[Default]、[SetDefault]，xlockconf 通过 [SetDefaultLevel] 调整级别
//   - 领域属性：[Actor]、[Priority]、[Lock]、[Kind] 等
//
// # 使用
//
//	logger := xlog.New(slog.NewJSONHandler(os.Stderr, nil), xlog.LevelInfo)
//	logger.Debug(ctx, "mutex contended", xlog.Lock("inode"), xlog.Actor(7))
//
// 锁原语默认使用 [Default]。[Default] 惰性初始化为 stderr + text 格式 + Warn 级别，
// 正常路径下不产生输出；契约违规（ProgrammingError）以 Error 级别带堆栈记录。
package xlog
