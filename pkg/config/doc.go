// Package config 提供配置加载相关的子包。
//
// 子包列表：
//   - xlockconf: 基于 koanf 的锁参数配置，支持 fsnotify 热加载
package config
