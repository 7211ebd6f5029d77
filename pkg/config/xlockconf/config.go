package xlockconf

import (
	"errors"
	"fmt"
	"time"

	"github.com/omeyang/xlockkit/pkg/debug/xlockreg"
	"github.com/omeyang/xlockkit/pkg/observability/xlog"
	"github.com/omeyang/xlockkit/pkg/sync/xmutex"
)

// Config 锁原语包级配置。
type Config struct {
	Spin     SpinConfig     `koanf:"spin" json:"spin"`
	Registry RegistryConfig `koanf:"registry" json:"registry"`
	Log      LogConfig      `koanf:"log" json:"log"`
}

// SpinConfig 自旋获取预算。
type SpinConfig struct {
	// Timeout 时间预算，必须 > 0。
	Timeout time.Duration `koanf:"timeout" json:"timeout"`
	// Limit 迭代预算，0 表示不限制。
	Limit int `koanf:"limit" json:"limit"`
}

// RegistryConfig 全局诊断注册表。
type RegistryConfig struct {
	Enabled bool `koanf:"enabled" json:"enabled"`
	// Shards 分片数，2 的幂，0 使用 xlockreg 默认值。
	Shards int `koanf:"shards" json:"shards"`
}

// LogConfig 默认日志记录器。
type LogConfig struct {
	Level xlog.Level `koanf:"level" json:"level"`
}

// Default 返回默认配置。
func Default() Config {
	d := xmutex.CurrentDefaults()
	return Config{
		Spin: SpinConfig{Timeout: d.SpinTimeout, Limit: d.SpinLimit},
		Log:  LogConfig{Level: xlog.LevelWarn},
	}
}

// Validate 校验配置，返回所有违规项。
func (c Config) Validate() error {
	var errs []error
	if c.Spin.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("spin.timeout must be positive, got %s", c.Spin.Timeout))
	}
	if c.Spin.Limit < 0 {
		errs = append(errs, fmt.Errorf("spin.limit must be >= 0, got %d", c.Spin.Limit))
	}
	if n := c.Registry.Shards; n < 0 || n&(n-1) != 0 {
		errs = append(errs, fmt.Errorf("registry.shards must be a power of two, got %d", n))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Apply 校验并应用配置。注册表已启用时保持现有实例。
func (c Config) Apply() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := xmutex.SetDefaults(xmutex.Defaults{
		SpinTimeout: c.Spin.Timeout,
		SpinLimit:   c.Spin.Limit,
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Registry.Enabled {
		if xlockreg.Global() == nil {
			var opts []xlockreg.Option
			if c.Registry.Shards > 0 {
				opts = append(opts, xlockreg.WithShardCount(c.Registry.Shards))
			}
			if _, err := xlockreg.Enable(opts...); err != nil {
				return fmt.Errorf("xlockconf: enable registry: %w", err)
			}
		}
	} else {
		xlockreg.Disable()
	}

	xlog.SetDefaultLevel(c.Log.Level)
	return nil
}
