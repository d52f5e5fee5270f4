package rerank

import (
	"context"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个候选。
//
// N > 0 时按 N 截断；N <= 0 时按本次请求的 rctx.Limit 截断（Limit <= 0 返回空）。
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &recall.Fanout{...},
//	        &rerank.ScoreSortNode{},
//	        &rerank.TopNNode{},
//	    },
//	}
type TopNNode struct {
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	recs []*core.Recommendation,
) ([]*core.Recommendation, error) {
	limit := n.N
	if limit <= 0 {
		if rctx == nil {
			return recs, nil
		}
		limit = rctx.Limit
	}
	if limit <= 0 {
		return nil, nil
	}
	if len(recs) <= limit {
		return recs, nil
	}
	return recs[:limit], nil
}
