package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/rtrec/core"
)

// Pipeline 把一次推荐拆成可组合的 Node 链：召回 -> 过滤 -> 重排。
type Pipeline struct {
	Nodes []Node
}

// Run 依次执行各 Node，前一个的输出是后一个的输入。
// 任一 Node 返回错误时中断，并在错误里带上 Node 名称。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	recs []*core.Recommendation,
) ([]*core.Recommendation, error) {
	cur := recs
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", node.Kind(), node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
