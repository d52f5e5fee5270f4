package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/feedback"
)

const (
	// DefaultLimit 是推荐结果的默认数量
	DefaultLimit = 10

	// DefaultSimilarUsersLimit 是相似用户的默认数量
	DefaultSimilarUsersLimit = 5
)

// ColdBlend 是冷启动分支各召回源占 limit 的比例。
type ColdBlend struct {
	Content  float64 `koanf:"content"`
	Trending float64 `koanf:"trending"`
}

// WarmBlend 是热用户分支各召回源占 limit 的比例。
type WarmBlend struct {
	Collaborative float64 `koanf:"collaborative"`
	Content       float64 `koanf:"content"`
	Trending      float64 `koanf:"trending"`
}

// Blend 是两个分支的配额。
type Blend struct {
	Cold ColdBlend `koanf:"cold"`
	Warm WarmBlend `koanf:"warm"`
}

// Config 是引擎参数。
type Config struct {
	LogCap             int           `koanf:"log_cap"`
	ColdStartThreshold int           `koanf:"cold_start_threshold"`
	DefaultLimit       int           `koanf:"default_limit"`
	SimilarUsersLimit  int           `koanf:"similar_users_limit"`
	NeighborCount      int           `koanf:"neighbor_count"`
	TrendingWindow     time.Duration `koanf:"trending_window"`
	PopularWindow      time.Duration `koanf:"popular_window"`
	ActiveWindow       time.Duration `koanf:"active_window"`

	Blend Blend `koanf:"blend"`
}

// DefaultConfig 返回默认参数，召回相关的取值来自 core.DefaultRecall。
func DefaultConfig() Config {
	rc := core.DefaultRecall()
	return Config{
		LogCap:             feedback.DefaultCapacity,
		ColdStartThreshold: rc.DefaultColdStartThreshold(),
		DefaultLimit:       DefaultLimit,
		SimilarUsersLimit:  DefaultSimilarUsersLimit,
		NeighborCount:      rc.DefaultNeighborCount(),
		TrendingWindow:     rc.DefaultTrendingWindow(),
		PopularWindow:      14 * 24 * time.Hour,
		ActiveWindow:       24 * time.Hour,
		Blend: Blend{
			Cold: ColdBlend{Content: 0.6, Trending: 0.4},
			Warm: WarmBlend{Collaborative: 0.6, Content: 0.3, Trending: 0.1},
		},
	}
}

// Validate 校验参数取值范围。
func (c Config) Validate() error {
	var errs []error
	for _, f := range []struct {
		name  string
		value int
	}{
		{"log_cap", c.LogCap},
		{"cold_start_threshold", c.ColdStartThreshold},
		{"default_limit", c.DefaultLimit},
		{"similar_users_limit", c.SimilarUsersLimit},
		{"neighbor_count", c.NeighborCount},
	} {
		if f.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", f.name, f.value))
		}
	}
	for _, f := range []struct {
		name  string
		value time.Duration
	}{
		{"trending_window", c.TrendingWindow},
		{"popular_window", c.PopularWindow},
		{"active_window", c.ActiveWindow},
	} {
		if f.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", f.name, f.value))
		}
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"blend.cold.content", c.Blend.Cold.Content},
		{"blend.cold.trending", c.Blend.Cold.Trending},
		{"blend.warm.collaborative", c.Blend.Warm.Collaborative},
		{"blend.warm.content", c.Blend.Warm.Content},
		{"blend.warm.trending", c.Blend.Warm.Trending},
	} {
		if f.value < 0 || f.value > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", f.name, f.value))
		}
	}
	return errors.Join(errs...)
}
