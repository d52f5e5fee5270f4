package core

import "sort"

// UserProfile 是由偏好矩阵派生的用户画像。
//
// 一句话定义：用户画像 = 一次查询内的"冷热判断 + genre 兴趣 + 外部偏好"
//
// 设计要点：
//
//	维度          作用
//	外部偏好      来自 User.Preferences，只读
//	genre 兴趣    内容推荐的核心（正向偏好分累加到物品的每个 genre）
//	偏好条目数    冷启动 / 热用户分支判断
type UserProfile struct {
	UserID string

	// Preferences 外部维护的偏好类目
	Preferences []string

	// Interests genre -> 累积偏好分（只累加正向偏好的物品）
	Interests map[string]float64

	// InteractionCount 偏好矩阵中该用户的条目数（不同物品数）
	InteractionCount int
}

// NewUserProfile 创建一个空画像。
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:    userID,
		Interests: make(map[string]float64),
	}
}

// BuildUserProfile 从数据视图构建画像。
// 对每个正向偏好的物品，把偏好分累加到该物品的每个 genre 上。
func BuildUserProfile(userID string, data RecallDataStore) *UserProfile {
	p := NewUserProfile(userID)
	if u, ok := data.GetUser(userID); ok {
		p.Preferences = append([]string(nil), u.Preferences...)
	}
	userItems := data.GetUserItems(userID)
	p.InteractionCount = len(userItems)
	for itemID, score := range userItems {
		if score <= 0 {
			continue
		}
		item, ok := data.GetItem(itemID)
		if !ok {
			continue
		}
		for _, g := range item.Genres {
			p.Interests[g] += score
		}
	}
	return p
}

// IsColdStart 判断条目数是否低于阈值。
func (p *UserProfile) IsColdStart(threshold int) bool {
	return p.InteractionCount < threshold
}

// GetInterestWeight 获取兴趣权重。
func (p *UserProfile) GetInterestWeight(genre string) float64 {
	if p.Interests == nil {
		return 0
	}
	return p.Interests[genre]
}

// TopInterests 返回分数最高的 n 个 genre（分数降序，同分按名称升序）。
func (p *UserProfile) TopInterests(n int) []string {
	if n <= 0 || len(p.Interests) == 0 {
		return nil
	}
	genres := make([]string, 0, len(p.Interests))
	for g := range p.Interests {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		wi, wj := p.Interests[genres[i]], p.Interests[genres[j]]
		if wi != wj {
			return wi > wj
		}
		return genres[i] < genres[j]
	})
	if len(genres) > n {
		genres = genres[:n]
	}
	return genres
}
