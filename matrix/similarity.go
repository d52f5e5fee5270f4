package matrix

import (
	"math"
	"sort"
)

// Neighbor 是一个相似用户及其相似度。
type Neighbor struct {
	UserID     string
	Similarity float64
}

// Similarity 计算两个用户的余弦相似度，只在两人共同交互过的物品上计算。
//
//   - 任一用户不在矩阵中：0
//   - 没有共同物品：0
//   - 范数为 0：0
//
// 结果对称且落在 [-1, 1]。
func (m *Matrix) Similarity(userA, userB string) float64 {
	a, ok := m.scores[userA]
	if !ok {
		return 0
	}
	b, ok := m.scores[userB]
	if !ok {
		return 0
	}
	return cosineOnCommon(a, b)
}

func cosineOnCommon(a, b map[string]float64) float64 {
	// 遍历较小的一侧；权重都是整数，累加顺序不影响结果
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, normA, normB float64
	common := 0
	for itemID, sa := range a {
		sb, ok := b[itemID]
		if !ok {
			continue
		}
		common++
		dot += sa * sb
		normA += sa * sa
		normB += sb * sb
	}
	if common == 0 {
		return 0
	}

	denominator := math.Sqrt(normA * normB)
	if denominator == 0 {
		return 0
	}
	sim := dot / denominator
	switch {
	case sim > 1:
		return 1
	case sim < -1:
		return -1
	}
	return sim
}

// SimilarUsers 返回与 userID 正相似的用户，相似度降序（同分按 userID 升序），最多 limit 个。
func (m *Matrix) SimilarUsers(userID string, limit int) []Neighbor {
	if limit <= 0 {
		return nil
	}
	target, ok := m.scores[userID]
	if !ok {
		return nil
	}

	neighbors := make([]Neighbor, 0)
	for _, other := range m.users {
		if other == userID {
			continue
		}
		sim := cosineOnCommon(target, m.scores[other])
		if sim > 0 {
			neighbors = append(neighbors, Neighbor{UserID: other, Similarity: sim})
		}
	}

	// m.users 已升序，稳定排序即可保证同分按 userID 升序
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Similarity > neighbors[j].Similarity
	})
	if len(neighbors) > limit {
		neighbors = neighbors[:limit]
	}
	return neighbors
}
