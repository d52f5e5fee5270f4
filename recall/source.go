// Package recall 提供三种召回策略（协同过滤、内容、热门）以及按分支配额并发执行它们的 Fanout。
package recall

import (
	"context"
	"sort"

	"github.com/rushteam/rtrec/core"
)

// Source 表示一个可复用的召回策略（协同过滤/内容/热门/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
//
// 约定：
//   - limit <= 0 返回空结果，不报错
//   - 只读 rctx.Data，不修改任何共享状态
//   - 不返回目标用户在偏好矩阵中已有条目的物品
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext, limit int) ([]*core.Recommendation, error)
}

type scoredItem struct {
	itemID string
	score  float64
}

// rankByScore 按分数降序排序，同分按 itemID 升序，取前 limit 个。
func rankByScore(scores map[string]float64, limit int) []scoredItem {
	ranked := make([]scoredItem, 0, len(scores))
	for id, s := range scores {
		ranked = append(ranked, scoredItem{itemID: id, score: s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].itemID < ranked[j].itemID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func usable(rctx *core.RecommendContext, limit int) bool {
	return limit > 0 && rctx != nil && rctx.Data != nil
}
