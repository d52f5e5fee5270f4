package filter

import (
	"context"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤候选：表达式为 true 的候选被移除。
//
// 示例：`item.rating < 2.0` 过滤低分物品，`item.category == "Books"` 过滤某个类目。
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式并创建过滤器。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	rec *core.Recommendation,
) (bool, error) {
	if rec == nil {
		return true, nil
	}
	return f.prg.Match(rec, rctx)
}
