package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/rtrec/recall"
)

// 使用配置驱动时，需在 main 或入口处 import _ "github.com/rushteam/rtrec/config/builders"
// 以触发内置召回源（collaborative、content、trending）的 init 注册。

// SourceBuilder 根据 params 构建一个召回源。
// 各召回源在 init 中调用 Register(typeName, builder) 即可被配置驱动。
type SourceBuilder func(params map[string]any) (recall.Source, error)

var (
	defaultBuilders   = make(map[string]SourceBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种召回源的构建逻辑。
// 建议在各组件的 init 中调用，例如：func init() { config.Register("trending", BuildTrending) }
func Register(typeName string, builder SourceBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的召回源类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// BuildSource 按类型名构建召回源；未注册的类型返回包含已支持列表的错误。
func BuildSource(typeName string, params map[string]any) (recall.Source, error) {
	defaultBuildersMu.RLock()
	builder, ok := defaultBuilders[typeName]
	defaultBuildersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported source type %q (supported: %v)", typeName, SupportedTypes())
	}
	src, err := builder(params)
	if err != nil {
		return nil, fmt.Errorf("build source %q: %w", typeName, err)
	}
	return src, nil
}
