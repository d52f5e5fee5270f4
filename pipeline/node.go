package pipeline

import (
	"context"

	"github.com/rushteam/rtrec/core"
)

// Kind 用于标记 Node 类型，方便观测/打点。
type Kind string

const (
	KindRecall Kind = "recall" // 召回阶段：按分支配额产生候选
	KindFilter Kind = "filter" // 过滤阶段：剔除不符合约束的候选
	KindReRank Kind = "rerank" // 重排阶段：排序、截断、改写标签
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入候选 -> 输出候选"的形态，召回生成、过滤截断、重排都是同一种操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		recs []*core.Recommendation,
	) ([]*core.Recommendation, error)
}
