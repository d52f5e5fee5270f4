package recall

import (
	"context"
	"math"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/pipeline"
	"github.com/rushteam/rtrec/pkg/utils"
)

// Quota 是分支中的一个召回源及其占 limit 的比例。
type Quota struct {
	Source Source
	Share  float64
}

// QuotaFor 返回 ⌈share * limit⌉；share <= 0 或 limit <= 0 时为 0。
func QuotaFor(limit int, share float64) int {
	if limit <= 0 || share <= 0 {
		return 0
	}
	// 0.3*10 这类乘积在浮点下会略大于整数，先减去一个极小量再取整
	return int(math.Ceil(share*float64(limit) - 1e-9))
}

// Fanout 是一个 Recall Node：并发执行多个召回源，并按 Sources 顺序拼接结果。
//
// 每个源按 QuotaFor(rctx.Limit, Share) 取候选；拼接顺序即优先级（下标越小越高），
// 开启 Dedup 时相同 itemID 保留第一次出现的候选。
// 单个源失败或超时时该源视为空结果，不中断其他源。
type Fanout struct {
	Sources       []Quota
	Dedup         bool
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）

	// OnError 在某个源失败时回调（可选），用于日志/打点
	OnError func(source string, err error)
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Recommendation,
) ([]*core.Recommendation, error) {
	if len(n.Sources) == 0 || rctx == nil || rctx.Limit <= 0 {
		return nil, nil
	}

	// 每个源写入自己的槽位，拼接顺序与并发调度无关
	results := make([][]*core.Recommendation, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, q := range n.Sources {
		quota := QuotaFor(rctx.Limit, q.Share)
		if q.Source == nil || quota == 0 {
			continue
		}
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			recs, err := q.Source.Recall(recallCtx, rctx, quota)
			if err != nil {
				if n.OnError != nil {
					n.OnError(q.Source.Name(), err)
				}
				return nil
			}

			// 记录召回来源 label，方便 explain / 观测
			for _, rec := range recs {
				rec.PutLabel(utils.LabelRecallSource, utils.Label{Value: q.Source.Name(), Source: "recall"})
				rec.PutLabel(utils.LabelRecallPriority, utils.Label{Value: strconv.Itoa(i), Source: "recall"})
			}
			results[i] = recs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, recs := range results {
		total += len(recs)
	}
	all := make([]*core.Recommendation, 0, total)
	for _, recs := range results {
		all = append(all, recs...)
	}
	if !n.Dedup {
		return all, nil
	}
	return MergeFirst(all), nil
}

// MergeFirst 按 itemID 去重，保留第一个出现的候选；被丢弃候选的来源合并到保留者的 label 上。
func MergeFirst(all []*core.Recommendation) []*core.Recommendation {
	seen := make(map[string]*core.Recommendation, len(all))
	out := make([]*core.Recommendation, 0, len(all))
	for _, rec := range all {
		if rec == nil {
			continue
		}
		if kept, ok := seen[rec.ItemID]; ok {
			if lbl, ok := rec.Labels[utils.LabelRecallSource]; ok {
				kept.PutLabel("dedup_"+utils.LabelRecallSource, lbl)
			}
			continue
		}
		seen[rec.ItemID] = rec
		out = append(out, rec)
	}
	return out
}
