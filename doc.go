// Package rtrec 是一个进程内的实时推荐引擎。
//
// 设计要点：
// - Pipeline-first: 查询通过 Node 串联（Recall → Filter → ReRank），冷启动与热用户各一条
// - Labels-first: labels 全链路透传与标准化 merge，用于 explain 与观测
// - 实时: RecordInteraction 写入行为日志后立即重建用户相似度矩阵
package rtrec

import (
	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/engine"
	"github.com/rushteam/rtrec/pipeline"
)

// 轻量 facade：便于直接 import "rtrec" 使用核心类型。
type (
	Engine          = engine.Engine
	Option          = engine.Option
	Config          = engine.Config
	Stats           = engine.Stats
	User            = core.User
	Item            = core.Item
	Interaction     = core.Interaction
	InteractionType = core.InteractionType
	Recommendation  = core.Recommendation
	Algorithm       = core.Algorithm

	Pipeline = pipeline.Pipeline
	Node     = pipeline.Node
	Kind     = pipeline.Kind
)

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)

// New 用初始数据构造引擎，等价于 engine.New。
func New(users []User, items []Item, interactions []Interaction, opts ...Option) (*Engine, error) {
	return engine.New(users, items, interactions, opts...)
}
