package filter

import (
	"context"

	"github.com/rushteam/rtrec/core"
)

// InteractedFilter 过滤目标用户在偏好矩阵中已有条目的物品（任何行为类型，包括不喜欢）。
// 各召回源本身已做排除，这里作为分支合并后的最后一道保证。
type InteractedFilter struct{}

func (f *InteractedFilter) Name() string {
	return "filter.interacted"
}

func (f *InteractedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	rec *core.Recommendation,
) (bool, error) {
	if rec == nil {
		return true, nil
	}
	_, seen := rctx.UserItems()[rec.ItemID]
	return seen, nil
}
