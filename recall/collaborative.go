package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/pkg/utils"
)

const reasonCollaborative = "Users with similar taste also liked this"

// UserBasedCF 是基于用户的协同过滤召回源（User-based Collaborative Filtering, User-CF）。
//
// 核心思想："兴趣相似的用户，喜欢相似的物品"
//
// 算法流程：
//  1. 取与目标用户正相似的 TopK 个用户
//  2. 每个相似用户正向偏好的物品贡献 score * similarity
//  3. 跨相似用户累加，排除目标用户已有条目的物品（包括不喜欢的）
//  4. 降序取 limit 个，分数除以实际使用的相似用户数
//
// 没有相似用户时返回空结果。
type UserBasedCF struct {
	// TopKSimilarUsers 参与打分的相似用户数，<= 0 时使用默认值（10）
	TopKSimilarUsers int
}

func (r *UserBasedCF) Name() string {
	return "recall.collaborative"
}

func (r *UserBasedCF) topK() int {
	if r.TopKSimilarUsers > 0 {
		return r.TopKSimilarUsers
	}
	return core.DefaultRecall().DefaultNeighborCount()
}

func (r *UserBasedCF) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Recommendation, error) {
	if !usable(rctx, limit) {
		return nil, nil
	}
	data := rctx.Data

	neighbors := data.SimilarUsers(rctx.UserID, r.topK())
	if len(neighbors) == 0 {
		return nil, nil
	}
	target := data.GetUserItems(rctx.UserID)

	// score[itemID] = Σ(similarity * neighborScore)
	itemScores := make(map[string]float64)
	for _, n := range neighbors {
		sim := data.Similarity(rctx.UserID, n)
		for itemID, score := range data.GetUserItems(n) {
			if score <= 0 {
				continue
			}
			if _, seen := target[itemID]; seen {
				continue
			}
			itemScores[itemID] += score * sim
		}
	}

	used := float64(len(neighbors))
	ranked := rankByScore(itemScores, limit)
	out := make([]*core.Recommendation, 0, len(ranked))
	for _, s := range ranked {
		rec := core.NewRecommendation(s.itemID, s.score/used, reasonCollaborative, core.AlgorithmCollaborative)
		rec.PutLabel(utils.LabelNeighbors, utils.Label{Value: strconv.Itoa(len(neighbors)), Source: "recall"})
		out = append(out, rec)
	}
	return out, nil
}
