package engine

import (
	"time"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/feedback"
	"github.com/rushteam/rtrec/matrix"
)

// state 是引擎持有的全部可变状态：行为日志、由它派生的偏好矩阵，以及只读目录。
// 自身不加锁，由 Engine.mu 保护；查询期间作为 core.RecallDataStore 暴露给召回源。
type state struct {
	log    *feedback.Log
	matrix *matrix.Matrix

	users     map[string]*core.User
	userOrder []*core.User
	items     map[string]*core.Item
	itemOrder []*core.Item
}

var _ core.RecallDataStore = (*state)(nil)

// rebuild 从当前日志全量重建偏好矩阵，返回耗时。
func (s *state) rebuild() time.Duration {
	start := time.Now()
	s.matrix = matrix.Build(s.log.Entries())
	return time.Since(start)
}

func (s *state) GetUserItems(userID string) map[string]float64 {
	return s.matrix.UserItems(userID)
}

func (s *state) GetAllUsers() []string {
	return s.matrix.Users()
}

func (s *state) Similarity(userA, userB string) float64 {
	return s.matrix.Similarity(userA, userB)
}

func (s *state) SimilarUsers(userID string, limit int) []string {
	neighbors := s.matrix.SimilarUsers(userID, limit)
	out := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		out = append(out, n.UserID)
	}
	return out
}

func (s *state) GetItem(itemID string) (*core.Item, bool) {
	it, ok := s.items[itemID]
	return it, ok
}

func (s *state) GetAllItems() []*core.Item {
	return s.itemOrder
}

func (s *state) GetUser(userID string) (*core.User, bool) {
	u, ok := s.users[userID]
	return u, ok
}

func (s *state) GetInteractionsSince(since time.Time) []core.Interaction {
	return s.log.Since(since)
}
