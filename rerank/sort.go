// Package rerank 对合并后的候选排序、截断以及改写对外标签。
package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/pipeline"
)

// ScoreSortNode 按 Score 降序稳定排序；同分保持输入顺序（即召回优先级）。
type ScoreSortNode struct{}

func (n *ScoreSortNode) Name() string {
	return "rerank.score_sort"
}

func (n *ScoreSortNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *ScoreSortNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	recs []*core.Recommendation,
) ([]*core.Recommendation, error) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs, nil
}
