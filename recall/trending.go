package recall

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/pkg/utils"
)

// Trending 是热门召回源：统计时间窗口内每个物品的非 dislike 行为数。
//
//   - 窗口以 rctx.Now 为基准（为零时取当前时间），包含时间戳晚于 Now-Window 的行为
//   - 排除目标用户已有条目的物品
//   - 按次数降序（同次数按 itemID 升序），分数 = 次数 / ScoreDivisor
type Trending struct {
	// Window 统计窗口，<= 0 时为 7 天
	Window time.Duration

	// ScoreDivisor 归一化除数，<= 0 时为 10
	ScoreDivisor float64
}

func (r *Trending) Name() string {
	return "recall.trending"
}

func (r *Trending) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Recommendation, error) {
	if !usable(rctx, limit) {
		return nil, nil
	}
	cfg := core.DefaultRecall()
	window, divisor := r.Window, r.ScoreDivisor
	if window <= 0 {
		window = cfg.DefaultTrendingWindow()
	}
	if divisor <= 0 {
		divisor = cfg.DefaultScoreDivisor()
	}
	now := rctx.Now
	if now.IsZero() {
		now = time.Now()
	}

	data := rctx.Data
	target := data.GetUserItems(rctx.UserID)
	counts := make(map[string]float64)
	for _, in := range data.GetInteractionsSince(now.Add(-window)) {
		if in.Type == core.InteractionDislike {
			continue
		}
		if _, seen := target[in.ItemID]; seen {
			continue
		}
		counts[in.ItemID]++
	}

	ranked := rankByScore(counts, limit)
	out := make([]*core.Recommendation, 0, len(ranked))
	for _, s := range ranked {
		count := int(s.score)
		rec := core.NewRecommendation(
			s.itemID,
			s.score/divisor,
			fmt.Sprintf("Trending now - %d recent interactions", count),
			core.AlgorithmTrending,
		)
		rec.PutLabel(utils.LabelRecentCount, utils.Label{Value: strconv.Itoa(count), Source: "recall"})
		out = append(out, rec)
	}
	return out, nil
}
