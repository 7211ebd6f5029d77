// Package debug 提供锁诊断相关的子包。
//
// 子包列表：
//   - xlockreg: 进程级锁注册表，可通过构建标签 xlockreg_off 编译剔除
package debug
