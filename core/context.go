package core

import (
	"time"

	"github.com/rushteam/rtrec/pkg/utils"
)

// RecommendContext 承载一次查询的用户/时间/数据视图，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID    string
	RequestID string

	// Now 是本次查询的评估时刻（热门窗口以此为基准），不是存储字段
	Now time.Time

	// Limit 是调用方期望的结果数量
	Limit int

	// Data 是本次查询锁定的只读数据视图
	Data RecallDataStore

	// User 是由偏好矩阵派生的用户画像，按需懒加载
	User *UserProfile

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	// 例如：cold_start、warm
	Labels map[string]utils.Label

	// Params 请求级上下文参数
	Params map[string]any
}

// GetUserProfile 获取用户画像。
// 优先返回已构建的画像，否则从数据视图构建并缓存在 rctx 上。
func (rctx *RecommendContext) GetUserProfile() *UserProfile {
	if rctx.User != nil {
		return rctx.User
	}
	if rctx.Data == nil {
		return nil
	}
	rctx.User = BuildUserProfile(rctx.UserID, rctx.Data)
	return rctx.User
}

// UserItems 返回目标用户的偏好分；数据视图缺失时返回 nil。
func (rctx *RecommendContext) UserItems() map[string]float64 {
	if rctx == nil || rctx.Data == nil {
		return nil
	}
	return rctx.Data.GetUserItems(rctx.UserID)
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
