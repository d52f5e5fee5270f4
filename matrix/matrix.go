// Package matrix 维护用户-物品偏好矩阵以及基于它的用户相似度。
//
// 矩阵是纯派生状态：任何时候都可以从行为日志完整重建，没有独立身份。
// 不变式：matrix[u][i] == Σ weight(type)，对所有 (u, i, type) 行为求和。
package matrix

import (
	"sort"

	"github.com/rushteam/rtrec/core"
)

// Matrix 是 user -> item -> 累积偏好分 的稀疏矩阵。
// 构建完成后只读，可被多个查询并发读取。
type Matrix struct {
	scores map[string]map[string]float64
	users  []string // 升序，构建时固定
}

// Build 从完整行为日志构建矩阵。
// 全量、幂等：同一份日志构建两次得到相同结果。
func Build(interactions []core.Interaction) *Matrix {
	scores := make(map[string]map[string]float64)
	for _, inter := range interactions {
		userItems, ok := scores[inter.UserID]
		if !ok {
			userItems = make(map[string]float64)
			scores[inter.UserID] = userItems
		}
		userItems[inter.ItemID] += inter.Type.Weight()
	}

	users := make([]string, 0, len(scores))
	for u := range scores {
		users = append(users, u)
	}
	sort.Strings(users)

	return &Matrix{scores: scores, users: users}
}

// Empty 返回空矩阵。
func Empty() *Matrix {
	return Build(nil)
}

// UserItems 返回用户的偏好分 map[itemID]score；未知用户返回 nil。
// 返回值归矩阵所有，调用方不得修改。
func (m *Matrix) UserItems(userID string) map[string]float64 {
	return m.scores[userID]
}

// Score 返回 (user, item) 的偏好分以及是否存在条目。
func (m *Matrix) Score(userID, itemID string) (float64, bool) {
	userItems, ok := m.scores[userID]
	if !ok {
		return 0, false
	}
	s, ok := userItems[itemID]
	return s, ok
}

// Has 判断用户是否与物品交互过（任何符号的偏好分都算）。
func (m *Matrix) Has(userID, itemID string) bool {
	_, ok := m.Score(userID, itemID)
	return ok
}

// Count 返回用户的条目数（不同物品数）。
func (m *Matrix) Count(userID string) int {
	return len(m.scores[userID])
}

// Users 返回至少有一条行为的用户（升序）。
func (m *Matrix) Users() []string {
	return m.users
}

// Len 返回用户数。
func (m *Matrix) Len() int {
	return len(m.users)
}

// Entries 返回矩阵中 (user, item) 条目总数。
func (m *Matrix) Entries() int {
	n := 0
	for _, userItems := range m.scores {
		n += len(userItems)
	}
	return n
}

// Equal 判断两个矩阵内容是否完全一致。
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || len(m.scores) != len(other.scores) {
		return false
	}
	for u, items := range m.scores {
		otherItems, ok := other.scores[u]
		if !ok || len(items) != len(otherItems) {
			return false
		}
		for i, s := range items {
			if os, ok := otherItems[i]; !ok || os != s {
				return false
			}
		}
	}
	return true
}
