package core

import "github.com/rushteam/rtrec/pkg/utils"

// Algorithm 是推荐结果的来源标签。
type Algorithm string

const (
	AlgorithmCollaborative Algorithm = "collaborative"
	AlgorithmContentBased  Algorithm = "content-based"
	AlgorithmTrending      Algorithm = "trending"
	AlgorithmNewUser       Algorithm = "new-user" // 冷启动分支统一打的标签
)

// Recommendation 是推荐链路中的统一承载结构：分数、解释、来源标签。
// 每次查询临时产生，不做存储。
//
// Algorithm 是对外展示的来源；冷启动分支会被改写为 new-user。
// Strategy 始终保留真实产生该结果的策略，供下游区分。
type Recommendation struct {
	ItemID    string                 `json:"item_id"`
	Score     float64                `json:"score"` // 仅用于排序，不同策略之间没有统一量纲
	Reason    string                 `json:"reason"`
	Algorithm Algorithm              `json:"algorithm"`
	Strategy  Algorithm              `json:"strategy"`
	Labels    map[string]utils.Label `json:"labels,omitempty"`
}

// NewRecommendation 创建一个由 algo 策略产生的候选。
func NewRecommendation(itemID string, score float64, reason string, algo Algorithm) *Recommendation {
	return &Recommendation{
		ItemID:    itemID,
		Score:     score,
		Reason:    reason,
		Algorithm: algo,
		Strategy:  algo,
		Labels:    make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (r *Recommendation) PutLabel(key string, lbl utils.Label) {
	if r.Labels == nil {
		r.Labels = make(map[string]utils.Label)
	}
	if old, ok := r.Labels[key]; ok {
		r.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	r.Labels[key] = lbl
}

// Clone 返回深拷贝（Labels 独立），用于改写标签时不影响原候选。
func (r *Recommendation) Clone() *Recommendation {
	out := *r
	out.Labels = make(map[string]utils.Label, len(r.Labels))
	for k, v := range r.Labels {
		out.Labels[k] = v
	}
	return &out
}
