//go:build !xlockreg_off

package xlockreg

import "sync/atomic"

// CompiledIn 报告全局注册表是否被编译进来。
const CompiledIn = true

var global atomic.Pointer[Registry]

// Enable 创建并安装全局注册表；已启用时返回现有实例。
func Enable(opts ...Option) (*Registry, error) {
	if r := global.Load(); r != nil {
		return r, nil
	}
	r, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if !global.CompareAndSwap(nil, r) {
		return global.Load(), nil
	}
	return r, nil
}

// Disable 拆除全局注册表。已创建的原语保留各自持有的注册表引用。
func Disable() {
	global.Store(nil)
}

// Global 返回全局注册表，未启用时返回 nil。
func Global() *Registry {
	return global.Load()
}
