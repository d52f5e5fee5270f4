package config

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/engine"
	"github.com/rushteam/rtrec/filter"
	"github.com/rushteam/rtrec/recall"
	"github.com/rushteam/rtrec/store"
)

// OpenStore 按 store.backend 打开外部存储；backend 为 none 时返回 (nil, nil)。
func (c *Config) OpenStore(ctx context.Context) (core.KeyValueStore, error) {
	switch c.Store.Backend {
	case BackendMemory:
		return store.NewMemoryStore(), nil
	case BackendRedis:
		rs, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:         c.Store.Addr,
			Password:     c.Store.Password,
			DB:           c.Store.DB,
			DialTimeout:  c.Store.DialTimeout,
			ReadTimeout:  c.Store.ReadTimeout,
			WriteTimeout: c.Store.WriteTimeout,
		})
		if err != nil {
			return nil, err
		}
		return rs, nil
	case BackendNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
}

// NewMirror 在 kv 上创建行为镜像。
func (c *Config) NewMirror(kv core.KeyValueStore, logger zerolog.Logger) *store.Mirror {
	return store.NewMirror(kv, store.MirrorConfig{
		KeyPrefix: c.Store.KeyPrefix,
		Capacity:  c.Store.Capacity,
		Breaker:   c.Store.Breaker,
	}, logger)
}

// BuildStrategies 按 strategies 段构建召回源，未配置 type 的槽位留空（引擎使用内置实现）。
// 需要先 import _ "github.com/rushteam/rtrec/config/builders"。
func (c *Config) BuildStrategies() (engine.Strategies, error) {
	var s engine.Strategies
	for _, slot := range []struct {
		name string
		cfg  SourceConfig
		dst  *recall.Source
	}{
		{"collaborative", c.Strategies.Collaborative, &s.Collaborative},
		{"content", c.Strategies.Content, &s.Content},
		{"trending", c.Strategies.Trending, &s.Trending},
	} {
		if slot.cfg.Type == "" {
			continue
		}
		src, err := BuildSource(slot.cfg.Type, slot.cfg.Params)
		if err != nil {
			return engine.Strategies{}, fmt.Errorf("strategies.%s: %w", slot.name, err)
		}
		*slot.dst = src
	}
	return s, nil
}

// BuildFilters 按 filter 段构建过滤器。kv 为 nil 时只使用不依赖存储的过滤器。
func (c *Config) BuildFilters(kv core.Store) ([]filter.Filter, error) {
	var adapter *filter.StoreAdapter
	if kv != nil {
		adapter = filter.NewStoreAdapter(kv)
	}

	var filters []filter.Filter
	if len(c.Filter.Blacklist) > 0 || (adapter != nil && c.Filter.BlacklistKey != "") {
		filters = append(filters, filter.NewBlacklistFilter(c.Filter.Blacklist, adapter, c.Filter.BlacklistKey))
	}
	if adapter != nil && c.Filter.UserBlockPrefix != "" {
		filters = append(filters, filter.NewUserBlockFilter(adapter, c.Filter.UserBlockPrefix))
	}
	if c.Filter.Expr != "" {
		f, err := filter.NewExprFilter(c.Filter.Expr)
		if err != nil {
			return nil, fmt.Errorf("filter.expr: %w", err)
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// EngineOptions 组装引擎选项：参数、召回源、过滤器，以及 kv 不为 nil 时的行为镜像。
// 返回的 Mirror 可能为 nil。
func (c *Config) EngineOptions(kv core.KeyValueStore, logger zerolog.Logger) ([]engine.Option, *store.Mirror, error) {
	strategies, err := c.BuildStrategies()
	if err != nil {
		return nil, nil, err
	}
	var plain core.Store
	if kv != nil {
		plain = kv
	}
	filters, err := c.BuildFilters(plain)
	if err != nil {
		return nil, nil, err
	}

	opts := []engine.Option{
		engine.WithConfig(c.Engine),
		engine.WithLogger(logger),
		engine.WithStrategies(strategies),
		engine.WithFilters(filters...),
	}
	var mirror *store.Mirror
	if kv != nil {
		mirror = c.NewMirror(kv, logger)
		opts = append(opts, engine.WithSink(mirror))
	}
	return opts, mirror, nil
}
