// Package config 加载 rtrec 的运行配置，并据此组装引擎、过滤器和外部存储。
//
// 配置分三层，后者覆盖前者：
//  1. 内置默认值（DefaultConfig）
//  2. YAML 文件（--config 或 RTREC_CONFIG）
//  3. 环境变量：RTREC_ 前缀，其余部分是配置路径把 "." 换成 "_"，例如
//     RTREC_ENGINE_LOG_CAP -> engine.log_cap，RTREC_STORE_BREAKER_TIMEOUT -> store.breaker.timeout
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/rtrec/engine"
	"github.com/rushteam/rtrec/pkg/logging"
	"github.com/rushteam/rtrec/store"
)

const (
	// EnvPrefix 是环境变量前缀
	EnvPrefix = "RTREC_"

	// ConfigPathEnvVar 指定配置文件路径
	ConfigPathEnvVar = "RTREC_CONFIG"
)

// 外部存储后端。
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config 是 rtrec 的完整配置。
type Config struct {
	Engine     engine.Config    `koanf:"engine"`
	Strategies StrategiesConfig `koanf:"strategies"`
	Filter     FilterConfig     `koanf:"filter"`
	Store      StoreConfig      `koanf:"store"`
	Log        logging.Config   `koanf:"log"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Data       DataConfig       `koanf:"data"`
}

// SourceConfig 描述一个召回源；Type 为空时使用引擎内置实现。
type SourceConfig struct {
	Type   string         `koanf:"type"`
	Params map[string]any `koanf:"params"`
}

// StrategiesConfig 是三个召回槽位的配置。
type StrategiesConfig struct {
	Collaborative SourceConfig `koanf:"collaborative"`
	Content       SourceConfig `koanf:"content"`
	Trending      SourceConfig `koanf:"trending"`
}

// FilterConfig 是追加在两个分支上的过滤器。
type FilterConfig struct {
	// Blacklist 固定黑名单物品 ID
	Blacklist []string `koanf:"blacklist"`

	// BlacklistKey 外部存储中的黑名单 key（JSON 字符串数组），需要配置 store
	BlacklistKey string `koanf:"blacklist_key"`

	// UserBlockPrefix 用户拉黑列表的 key 前缀，实际 key 为 {prefix}:{user_id}，需要配置 store
	UserBlockPrefix string `koanf:"user_block_prefix"`

	// Expr CEL 表达式，为 true 的候选被过滤，例如 item.rating < 2.0
	Expr string `koanf:"expr"`
}

// StoreConfig 是外部存储（行为镜像、黑名单）的配置。
type StoreConfig struct {
	Backend      string              `koanf:"backend"`
	Addr         string              `koanf:"addr"`
	Password     string              `koanf:"password"`
	DB           int                 `koanf:"db"`
	DialTimeout  time.Duration       `koanf:"dial_timeout"`
	ReadTimeout  time.Duration       `koanf:"read_timeout"`
	WriteTimeout time.Duration       `koanf:"write_timeout"`
	KeyPrefix    string              `koanf:"key_prefix"`
	Capacity     int                 `koanf:"capacity"`
	Replay       bool                `koanf:"replay"` // 启动时回放镜像中的行为
	Breaker      store.BreakerConfig `koanf:"breaker"`
}

// MetricsConfig 控制 Prometheus 指标的暴露。
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// DataConfig 是数据集来源；Path 为空时生成合成数据。
type DataConfig struct {
	Path string `koanf:"path"`
	Seed uint64 `koanf:"seed"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		Engine: engine.DefaultConfig(),
		Store: StoreConfig{
			Backend:      BackendNone,
			Addr:         "127.0.0.1:6379",
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			KeyPrefix:    "rtrec",
			Capacity:     engine.DefaultConfig().LogCap,
			Breaker:      store.DefaultBreakerConfig(),
		},
		Filter:  FilterConfig{Blacklist: []string{}},
		Log:     logging.DefaultConfig(),
		Metrics: MetricsConfig{Addr: ":9090"},
		Data:    DataConfig{Seed: 1},
	}
}

// sliceConfigPaths 中的路径在环境变量里以逗号分隔。
var sliceConfigPaths = []string{
	"filter.blacklist",
}

// Load 按 默认值 -> 文件 -> 环境变量 的顺序加载配置并校验。
// path 为空时读取 RTREC_CONFIG；两者都为空则不读文件。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	envKeys := envKeyIndex(k.Keys())

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(key string) string {
		return envKeys[strings.ToLower(strings.TrimPrefix(key, EnvPrefix))]
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := splitSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKeyIndex 把 engine.blend.cold.content 索引为 engine_blend_cold_content。
// 只有默认值中出现过的路径可以被环境变量覆盖。
func envKeyIndex(keys []string) map[string]string {
	idx := make(map[string]string, len(keys))
	for _, k := range keys {
		idx[strings.ReplaceAll(k, ".", "_")] = k
	}
	return idx
}

func splitSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// Validate 校验各段配置。
func (c *Config) Validate() error {
	var errs []error
	if err := c.Engine.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("engine: %w", err))
	}

	switch c.Store.Backend {
	case BackendNone, BackendMemory:
	case BackendRedis:
		if c.Store.Addr == "" {
			errs = append(errs, errors.New("store: addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("store: unknown backend %q", c.Store.Backend))
	}
	if c.Store.Capacity < 0 {
		errs = append(errs, fmt.Errorf("store: capacity must be non-negative, got %d", c.Store.Capacity))
	}
	if c.Store.Backend == BackendNone && (c.Filter.BlacklistKey != "" || c.Filter.UserBlockPrefix != "") {
		errs = append(errs, errors.New("filter: blacklist_key and user_block_prefix need a store backend"))
	}

	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log: unknown level %q", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("log: unknown format %q", c.Log.Format))
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		errs = append(errs, errors.New("metrics: addr is required when enabled"))
	}
	return errors.Join(errs...)
}
