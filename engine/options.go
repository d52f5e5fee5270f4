package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/rtrec/feedback"
	"github.com/rushteam/rtrec/filter"
	"github.com/rushteam/rtrec/recall"
)

// Strategies 是引擎使用的三个召回源；为 nil 的字段使用内置实现。
type Strategies struct {
	Collaborative recall.Source
	Content       recall.Source
	Trending      recall.Source
}

// Option 配置 Engine。
type Option func(*Engine)

// WithLogger 设置 logger，默认不输出。
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock 设置时间源，热门窗口、热度窗口和活跃用户统计都以它为基准。
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithConfig 设置引擎参数。
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithSink 设置行为提交后的下游（例如 store.Mirror）。
func WithSink(sink feedback.Sink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithFilters 在两个分支的合并结果上追加过滤器（黑名单、表达式等）。
func WithFilters(filters ...filter.Filter) Option {
	return func(e *Engine) { e.filters = append(e.filters, filters...) }
}

// WithStrategies 替换内置召回源。
func WithStrategies(s Strategies) Option {
	return func(e *Engine) { e.strategies = s }
}
