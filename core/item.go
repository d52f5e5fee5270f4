package core

import "time"

// Item 是目录中的物品（电影/商品/音乐等）。
// 由外部系统维护；引擎只读，Popularity 仅在展示时重新计算，从不回写。
type Item struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Category    string   `json:"category" yaml:"category"`
	Genres      []string `json:"genres" yaml:"genres"`
	Rating      float64  `json:"rating" yaml:"rating"` // 1.0 - 5.0
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	ImageURL    string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	ReleaseYear int      `json:"release_year,omitempty" yaml:"release_year,omitempty"`
	Popularity  float64  `json:"popularity" yaml:"popularity"` // 热度信号，无上界
	Language    string   `json:"language,omitempty" yaml:"language,omitempty"`
}

// HasGenre 判断物品是否带有某个 genre 标签。
func (it *Item) HasGenre(genre string) bool {
	for _, g := range it.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// User 是外部维护的用户信息，引擎只读取 ID 与 Preferences。
type User struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Preferences []string  `json:"preferences,omitempty" yaml:"preferences,omitempty"` // 偏好的类目
	Age         int       `json:"age,omitempty" yaml:"age,omitempty"`
	JoinedAt    time.Time `json:"joined_at" yaml:"joined_at"`
	Friends     []string  `json:"friends,omitempty" yaml:"friends,omitempty"` // 引擎不使用
}
