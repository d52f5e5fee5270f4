package core

import "time"

// RecallConfig 是召回相关的配置接口，用于给各策略提供默认值。
type RecallConfig interface {
	// DefaultNeighborCount 返回协同过滤默认考虑的相似用户数
	DefaultNeighborCount() int

	// DefaultTrendingWindow 返回热门统计的时间窗口
	DefaultTrendingWindow() time.Duration

	// DefaultScoreDivisor 返回内容推荐 / 热门的分数归一化除数
	DefaultScoreDivisor() float64

	// DefaultColdStartThreshold 返回冷启动判断阈值（偏好条目数）
	DefaultColdStartThreshold() int
}

// DefaultRecallConfig 是默认的召回配置实现。
type DefaultRecallConfig struct{}

func (c *DefaultRecallConfig) DefaultNeighborCount() int {
	return 10
}

func (c *DefaultRecallConfig) DefaultTrendingWindow() time.Duration {
	return 7 * 24 * time.Hour
}

func (c *DefaultRecallConfig) DefaultScoreDivisor() float64 {
	return 10
}

func (c *DefaultRecallConfig) DefaultColdStartThreshold() int {
	return 3
}

var defaultRecallConfig RecallConfig = &DefaultRecallConfig{}

// DefaultRecall 返回进程默认的召回配置。
func DefaultRecall() RecallConfig {
	return defaultRecallConfig
}
