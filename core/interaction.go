package core

import (
	"fmt"
	"time"
)

// InteractionType 是用户对物品的行为类型。
type InteractionType string

const (
	InteractionView     InteractionType = "view"     // 浏览
	InteractionLike     InteractionType = "like"     // 喜欢
	InteractionDislike  InteractionType = "dislike"  // 不喜欢
	InteractionPurchase InteractionType = "purchase" // 购买
	InteractionShare    InteractionType = "share"    // 分享
)

// InteractionTypes 返回所有合法的行为类型（顺序固定）。
func InteractionTypes() []InteractionType {
	return []InteractionType{
		InteractionView,
		InteractionLike,
		InteractionDislike,
		InteractionPurchase,
		InteractionShare,
	}
}

// Weight 返回该行为对偏好矩阵的贡献。
// 权重固定，修改会破坏与历史数据的兼容性。
func (t InteractionType) Weight() float64 {
	switch t {
	case InteractionView:
		return 1
	case InteractionLike:
		return 3
	case InteractionPurchase:
		return 5
	case InteractionShare:
		return 4
	case InteractionDislike:
		return -2
	default:
		return 0
	}
}

// Valid 判断是否为已知类型。
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionLike, InteractionDislike, InteractionPurchase, InteractionShare:
		return true
	}
	return false
}

// ParseInteractionType 解析字符串为 InteractionType。
func ParseInteractionType(s string) (InteractionType, error) {
	t := InteractionType(s)
	if !t.Valid() {
		return "", NewDomainError(ModuleInteraction, ErrorCodeInvalidInput,
			fmt.Sprintf("interaction: unknown type %q", s))
	}
	return t, nil
}

// Interaction 是一条不可变的用户行为事实，只会被追加或淘汰，不会被修改。
type Interaction struct {
	UserID    string          `json:"user_id" yaml:"user_id" validate:"required"`
	ItemID    string          `json:"item_id" yaml:"item_id" validate:"required"`
	Type      InteractionType `json:"type" yaml:"type" validate:"required,oneof=view like dislike purchase share"`
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp" validate:"required"`

	// Duration 浏览时长（秒），可选
	Duration float64 `json:"duration,omitempty" yaml:"duration,omitempty" validate:"omitempty,gte=0"`

	// Rating 显式评分，可选；0 表示未评分
	Rating float64 `json:"rating,omitempty" yaml:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

// Validate 在追加边界校验行为记录，返回 INVALID_INPUT 领域错误。
func (i *Interaction) Validate() error {
	return validateStruct(ModuleInteraction, i)
}
