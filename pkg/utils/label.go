package utils

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// Value 与 Source 的语义由业务自定义；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rerank / engine ...
}

// 常用 Label key。
const (
	LabelRecallSource   = "recall_source"   // 产生候选的策略
	LabelRecallPriority = "recall_priority" // 在分支中的优先级（0 最高）
	LabelBranch         = "branch"          // cold_start / warm
	LabelNeighbors      = "neighbors"       // 协同过滤使用的相似用户数
	LabelTopGenres      = "top_genres"      // 内容推荐命中的 genre
	LabelRecentCount    = "recent_count"    // 热门窗口内的行为数
)

// MergeLabel 用于合并同名 Label，遵循"保留历史、可追踪"的默认策略。
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}

// LabelValues 把 labels 摊平成 key -> value，便于日志 / CEL 输入。
func LabelValues(labels map[string]Label) map[string]string {
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v.Value
	}
	return out
}
