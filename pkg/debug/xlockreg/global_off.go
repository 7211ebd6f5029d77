//go:build xlockreg_off

package xlockreg

// CompiledIn 报告全局注册表是否被编译进来。
const CompiledIn = false

// Enable 在裁剪构建中始终返回 ErrCompiledOut。
func Enable(...Option) (*Registry, error) {
	return nil, ErrCompiledOut
}

// Disable 在裁剪构建中为空操作。
func Disable() {}

// Global 在裁剪构建中恒为 nil。
func Global() *Registry {
	return nil
}
