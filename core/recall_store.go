package core

import "time"

// RecallDataStore 是召回策略读取数据的领域接口（只读视图）。
//
// 设计原则：
//   - 定义在领域层（core），由引擎（engine）在持有读锁时提供实现
//   - 一次查询内看到的是同一个完整重建后的偏好矩阵，不会看到中间状态
//   - 返回的 map / slice 归视图所有，调用方不得修改
//
// 使用场景：
//   - 协同过滤：用户-物品偏好分、全部用户
//   - 内容推荐：物品 genre、评分、热度
//   - 热门：时间窗口内的行为记录
type RecallDataStore interface {
	// ========== 偏好矩阵 ==========

	// GetUserItems 获取用户的偏好分 map[itemID]score；未知用户返回 nil
	GetUserItems(userID string) map[string]float64

	// GetAllUsers 获取至少有一条行为记录的用户 ID（升序）
	GetAllUsers() []string

	// Similarity 返回两个用户的余弦相似度，范围 [-1, 1]
	Similarity(userA, userB string) float64

	// SimilarUsers 返回相似度严格为正的用户（降序，同分按 userID 升序），最多 limit 个
	SimilarUsers(userID string, limit int) []string

	// ========== 目录 ==========

	// GetItem 获取物品元数据
	GetItem(itemID string) (*Item, bool)

	// GetAllItems 获取全部物品（按构造输入顺序）
	GetAllItems() []*Item

	// GetUser 获取用户元数据
	GetUser(userID string) (*User, bool)

	// ========== 行为日志 ==========

	// GetInteractionsSince 返回时间戳晚于 since 的行为（新的在前）
	GetInteractionsSince(since time.Time) []Interaction
}
