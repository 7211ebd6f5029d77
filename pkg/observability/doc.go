// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展
//
// 指标与追踪直接使用 OpenTelemetry API，由各锁原语包自行声明 instrument。
package observability
