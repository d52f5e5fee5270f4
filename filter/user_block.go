package filter

import (
	"context"

	"github.com/rushteam/rtrec/core"
)

const userBlockParam = "filter.user_block"

// UserBlockFilter 是用户拉黑过滤器，过滤掉用户拉黑的物品。
// 拉黑列表每次请求只读取一次，缓存在 rctx.Params 上。
type UserBlockFilter struct {
	// Store 用于从存储中读取用户拉黑列表
	Store UserBlockStore

	// KeyPrefix 是 Store 中的 key 前缀，实际 key 为 {KeyPrefix}:{UserID}
	KeyPrefix string
}

// UserBlockStore 是用户拉黑存储接口。
type UserBlockStore interface {
	// GetUserBlocks 获取用户拉黑的物品 ID 列表
	GetUserBlocks(ctx context.Context, userID string, keyPrefix string) ([]string, error)
}

// NewUserBlockFilter 创建一个用户拉黑过滤器。
func NewUserBlockFilter(storeAdapter *StoreAdapter, keyPrefix string) *UserBlockFilter {
	var store UserBlockStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &UserBlockFilter{
		Store:     store,
		KeyPrefix: keyPrefix,
	}
}

func (f *UserBlockFilter) Name() string {
	return "filter.user_block"
}

func (f *UserBlockFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	rec *core.Recommendation,
) (bool, error) {
	if rec == nil || rctx == nil || rctx.UserID == "" || f.Store == nil {
		return false, nil
	}
	blocked, err := f.blocked(ctx, rctx)
	if err != nil {
		return false, err
	}
	_, ok := blocked[rec.ItemID]
	return ok, nil
}

func (f *UserBlockFilter) blocked(ctx context.Context, rctx *core.RecommendContext) (map[string]struct{}, error) {
	if cached, ok := rctx.Params[userBlockParam].(map[string]struct{}); ok {
		return cached, nil
	}

	keyPrefix := f.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "user:block"
	}
	ids, err := f.Store.GetUserBlocks(ctx, rctx.UserID, keyPrefix)
	if core.IsStoreNotFound(err) {
		err = nil
	}

	// 读取失败时缓存空集合，本次请求不再重试，错误只上报一次
	set := make(map[string]struct{}, len(ids))
	if err == nil {
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
	if rctx.Params == nil {
		rctx.Params = make(map[string]any)
	}
	rctx.Params[userBlockParam] = set
	return set, err
}
