package xsched

import "errors"

var (
	// ErrUnknownActor 表示执行体 ID 未注册或已退出。属于契约违规。
	ErrUnknownActor = errors.New("xsched: unknown actor")

	// ErrInvalidActor 表示 ID 为 NoActor 或占用了保留位。属于契约违规。
	ErrInvalidActor = errors.New("xsched: invalid actor id")
)
