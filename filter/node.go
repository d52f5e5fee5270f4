package filter

import (
	"context"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该候选就会被过滤掉。
// 过滤器出错时视为不过滤，不中断流程，错误通过 OnError 上报。
type FilterNode struct {
	Filters []Filter

	// OnFiltered 在候选被过滤时回调（可选），用于调试/观测
	OnFiltered func(rec *core.Recommendation, filter string)

	// OnError 在过滤器返回错误时回调（可选），该过滤器对这个候选视为不过滤
	OnError func(rec *core.Recommendation, filter string, err error)
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	recs []*core.Recommendation,
) ([]*core.Recommendation, error) {
	if len(n.Filters) == 0 || len(recs) == 0 {
		return recs, nil
	}

	out := make([]*core.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if rec == nil {
			continue
		}
		if name, drop := n.check(ctx, rctx, rec); drop {
			if n.OnFiltered != nil {
				n.OnFiltered(rec, name)
			}
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (n *FilterNode) check(ctx context.Context, rctx *core.RecommendContext, rec *core.Recommendation) (string, bool) {
	for _, f := range n.Filters {
		drop, err := f.ShouldFilter(ctx, rctx, rec)
		if err != nil {
			if n.OnError != nil {
				n.OnError(rec, f.Name(), err)
			}
			continue
		}
		if drop {
			return f.Name(), true
		}
	}
	return "", false
}
