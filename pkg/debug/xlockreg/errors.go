package xlockreg

import "errors"

var (
	// ErrNotRegistered 表示句柄未注册（重复注销或从未注册）。
	ErrNotRegistered = errors.New("xlockreg: handle not registered")

	// ErrNilSubject 表示注册了 nil 原语。
	ErrNilSubject = errors.New("xlockreg: nil subject")

	// ErrInvariant 表示原语状态违反数据不变式。
	ErrInvariant = errors.New("xlockreg: invariant violated")

	// ErrInvalidShardCount 表示分片数不是 2 的幂或超出范围。
	ErrInvalidShardCount = errors.New("xlockreg: invalid shard count")

	// ErrCompiledOut 表示全局注册表已被构建标签 xlockreg_off 裁剪。
	ErrCompiledOut = errors.New("xlockreg: registry compiled out")
)
