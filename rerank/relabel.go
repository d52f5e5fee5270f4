package rerank

import (
	"context"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/pipeline"
)

// RelabelNode 把每个候选的对外来源改写为 Algorithm，Strategy 保留真实策略。
// 冷启动分支用它把结果统一标记为 new-user。
type RelabelNode struct {
	Algorithm core.Algorithm
}

func (n *RelabelNode) Name() string {
	return "rerank.relabel"
}

func (n *RelabelNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *RelabelNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	recs []*core.Recommendation,
) ([]*core.Recommendation, error) {
	out := make([]*core.Recommendation, 0, len(recs))
	for _, rec := range recs {
		rec = rec.Clone()
		rec.Algorithm = n.Algorithm
		out = append(out, rec)
	}
	return out, nil
}
