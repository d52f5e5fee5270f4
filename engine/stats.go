package engine

import (
	"context"
	"sort"
)

// CategoryCount 是某个类目下的物品数。
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats 是引擎的全局概览。
type Stats struct {
	TotalUsers        int             `json:"total_users"`
	TotalItems        int             `json:"total_items"`
	TotalInteractions int             `json:"total_interactions"`
	ActiveUsers       int             `json:"active_users"` // ActiveWindow 内有行为的不同用户数
	AverageRating     float64         `json:"average_rating"`
	TopCategories     []CategoryCount `json:"top_categories"` // 物品数降序，同数按类目名升序
}

// Stats 统计目录和行为日志的概览。
func (e *Engine) Stats(_ context.Context) Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Stats{
		TotalUsers:        len(e.st.userOrder),
		TotalItems:        len(e.st.itemOrder),
		TotalInteractions: e.st.log.Len(),
	}

	active := make(map[string]struct{})
	for _, in := range e.st.log.Since(e.now().Add(-e.cfg.ActiveWindow)) {
		active[in.UserID] = struct{}{}
	}
	s.ActiveUsers = len(active)

	counts := make(map[string]int)
	var ratingSum float64
	for _, it := range e.st.itemOrder {
		ratingSum += it.Rating
		counts[it.Category]++
	}
	if s.TotalItems > 0 {
		s.AverageRating = ratingSum / float64(s.TotalItems)
	}

	s.TopCategories = make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		s.TopCategories = append(s.TopCategories, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(s.TopCategories, func(i, j int) bool {
		a, b := s.TopCategories[i], s.TopCategories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	return s
}
