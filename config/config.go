// =============================================================================
// 📦 skillrouter 配置
// =============================================================================
// 统一配置加载，支持 YAML 文件 + 环境变量覆盖
//
// 使用方法:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("skillrouter.yaml").
//	    WithEnvPrefix("SKILLROUTER").
//	    Load()
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量
// =============================================================================
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config skillrouter 的完整配置结构。
type Config struct {
	// Catalog 技能目录来源配置
	Catalog CatalogConfig `yaml:"catalog"`

	// Activation 激活目录配置
	Activation ActivationConfig `yaml:"activation"`

	// Search 检索配置
	Search SearchConfig `yaml:"search"`

	// Log 日志配置
	Log LogConfig `yaml:"log"`
}

// CatalogConfig 目录来源配置。Path 与 URL 二选一，Path 优先。
type CatalogConfig struct {
	// 本地目录文件（SkillRecord JSON 数组）
	Path string `yaml:"path"`
	// 远端目录端点
	URL string `yaml:"url"`
	// 缓存副本有效期
	TTL time.Duration `yaml:"ttl"`
	// 两次上游重取的最小间隔
	MinRefreshInterval time.Duration `yaml:"min_refresh_interval"`
	// 跳过模式校验（降级运行）
	Passthrough bool `yaml:"passthrough"`
	// Redis 共享缓存（多实例部署可选）
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig 共享目录缓存配置。
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Key      string        `yaml:"key"`
	TTL      time.Duration `yaml:"ttl"`
}

// ActivationConfig 激活目录配置。
type ActivationConfig struct {
	// 激活目录，技能以符号链接形式落在这里
	Dir string `yaml:"dir"`
	// 技能内容根目录，目录记录里的相对 path 基于它解析
	SkillsRoot string `yaml:"skills_root"`
	// 追加的路径放行根（默认放行表之外）
	AllowedRoots []string `yaml:"allowed_roots"`
	// 追加的路径拒绝前缀
	BlockedRoots []string `yaml:"blocked_roots"`
}

// SearchConfig 检索配置。
type SearchConfig struct {
	// 默认返回条数
	DefaultLimit int `yaml:"default_limit"`
}

// LogConfig 日志配置。
type LogConfig struct {
	// debug / info / warn / error
	Level string `yaml:"level"`
	// json / console
	Format string `yaml:"format"`
}

// DefaultConfig 返回默认配置。
// 激活目录默认固定在用户主目录下（~/.skillrouter/active）。
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	activationDir := ".skillrouter/active"
	if home != "" {
		activationDir = filepath.Join(home, ".skillrouter", "active")
	}

	return &Config{
		Catalog: CatalogConfig{
			TTL:                10 * time.Minute,
			MinRefreshInterval: 5 * time.Second,
			Redis: RedisConfig{
				Addr: "localhost:6379",
				Key:  "skillrouter:catalog",
				TTL:  10 * time.Minute,
			},
		},
		Activation: ActivationConfig{
			Dir: activationDir,
		},
		Search: SearchConfig{
			DefaultLimit: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
