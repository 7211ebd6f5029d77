// Package xlockconf 加载锁原语的包级配置，基于 koanf 实现。
//
// 支持 YAML（.yaml/.yml）与 JSON（.json）两种格式，可从文件或字节数据加载。
// 未出现的键保留 [Default] 中的值。
//
//	spin:
//	  timeout: 2s      # 自旋获取时间预算
//	  limit: 0         # 自旋迭代预算，0 不限制
//	registry:
//	  enabled: true    # 启用全局诊断注册表
//	  shards: 16
//	log:
//	  level: warn
//
// [Config.Apply] 把配置推送到 xmutex 包级默认值、xlockreg 全局注册表与 xlog 默认级别。
// 默认值只影响之后创建的锁。
//
// [Watch] 基于 fsnotify 监视配置文件所在目录，变更经防抖后重新加载并回调。
package xlockconf
