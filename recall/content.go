package recall

import (
	"context"
	"sort"
	"strings"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/pkg/utils"
)

const (
	DefaultRatingWeight     = 0.5
	DefaultPopularityWeight = 0.1

	reasonContentFallback = "Top rated and popular picks"
)

// ContentRecall 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户喜欢具有某些 genre 的物品，推荐具有相同 genre 的其他物品"
//
// 打分：Σ genre 兴趣分 + RatingWeight * rating + PopularityWeight * popularity，
// 丢弃非正分，降序取 limit 个后除以 ScoreDivisor。
// genre 兴趣为空（真正的冷启动）时，评分和热度仍能给出非零排序。
//
// 只对已注册的用户生效，未知用户返回空结果。
type ContentRecall struct {
	// RatingWeight 评分权重，<= 0 时为 0.5
	RatingWeight float64

	// PopularityWeight 热度权重，<= 0 时为 0.1
	PopularityWeight float64

	// ScoreDivisor 归一化除数，<= 0 时为 10
	ScoreDivisor float64
}

func (r *ContentRecall) Name() string {
	return "recall.content"
}

func (r *ContentRecall) weights() (rating, popularity, divisor float64) {
	rating, popularity, divisor = r.RatingWeight, r.PopularityWeight, r.ScoreDivisor
	if rating <= 0 {
		rating = DefaultRatingWeight
	}
	if popularity <= 0 {
		popularity = DefaultPopularityWeight
	}
	if divisor <= 0 {
		divisor = core.DefaultRecall().DefaultScoreDivisor()
	}
	return rating, popularity, divisor
}

func (r *ContentRecall) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Recommendation, error) {
	if !usable(rctx, limit) {
		return nil, nil
	}
	data := rctx.Data
	if _, ok := data.GetUser(rctx.UserID); !ok {
		return nil, nil
	}

	// 并发召回时不回写 rctx，由调用方预先构建画像
	profile := rctx.User
	if profile == nil {
		profile = core.BuildUserProfile(rctx.UserID, data)
	}
	target := data.GetUserItems(rctx.UserID)
	ratingW, popularityW, divisor := r.weights()

	candidates := make([]scoredItem, 0)
	for _, item := range data.GetAllItems() {
		if _, seen := target[item.ID]; seen {
			continue
		}
		score := 0.0
		for _, g := range item.Genres {
			score += profile.GetInterestWeight(g)
		}
		score += item.Rating*ratingW + item.Popularity*popularityW
		if score > 0 {
			candidates = append(candidates, scoredItem{itemID: item.ID, score: score})
		}
	}
	// 同分保持目录顺序
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	top := profile.TopInterests(2)
	reason := contentReason(top)
	out := make([]*core.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		rec := core.NewRecommendation(c.itemID, c.score/divisor, reason, core.AlgorithmContentBased)
		if len(top) > 0 {
			rec.PutLabel(utils.LabelTopGenres, utils.Label{Value: strings.Join(top, ","), Source: "recall"})
		}
		out = append(out, rec)
	}
	return out, nil
}

func contentReason(topGenres []string) string {
	if len(topGenres) == 0 {
		return reasonContentFallback
	}
	return "Matches your preferences for " + strings.Join(topGenres, " and ")
}
