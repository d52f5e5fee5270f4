// Package engine 是实时推荐引擎：维护行为日志和偏好矩阵，并按用户冷热编排三种召回策略。
//
// 并发模型：RecordInteraction 持写锁完成"插入日志 -> 全量重建矩阵"；
// 所有查询在整个执行期间持读锁，只会看到更新前或更新后的完整状态。
// 引擎不启动任何后台 goroutine。
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/feedback"
	"github.com/rushteam/rtrec/filter"
	"github.com/rushteam/rtrec/matrix"
	"github.com/rushteam/rtrec/pipeline"
	"github.com/rushteam/rtrec/pkg/utils"
	"github.com/rushteam/rtrec/recall"
	"github.com/rushteam/rtrec/rerank"
)

const (
	branchCold = "cold_start"
	branchWarm = "warm"
)

// Engine 是实时推荐引擎。
type Engine struct {
	mu sync.RWMutex
	st *state

	cfg        Config
	logger     zerolog.Logger
	now        func() time.Time
	sink       feedback.Sink
	filters    []filter.Filter
	strategies Strategies

	cold *pipeline.Pipeline
	warm *pipeline.Pipeline
}

// New 用目录和初始行为构建引擎。
//
// 用户、物品按 ID 唯一，重复 ID 后者覆盖前者（保留首次出现的位置）。
// 初始行为同样经过校验，畸形记录被跳过；超过日志容量时只保留最新的部分。
func New(users []core.User, items []core.Item, interactions []core.Interaction, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:    DefaultConfig(),
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, core.WrapDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: invalid config", err)
	}
	e.logger = e.logger.With().Str("component", "engine").Logger()

	st := &state{
		users: make(map[string]*core.User, len(users)),
		items: make(map[string]*core.Item, len(items)),
	}
	for i := range users {
		u := users[i]
		if old, dup := st.users[u.ID]; dup {
			e.logger.Warn().Str("user_id", u.ID).Msg("duplicate user id, last one wins")
			*old = u
			continue
		}
		st.users[u.ID] = &u
		st.userOrder = append(st.userOrder, &u)
	}
	for i := range items {
		it := items[i]
		if old, dup := st.items[it.ID]; dup {
			e.logger.Warn().Str("item_id", it.ID).Msg("duplicate item id, last one wins")
			*old = it
			continue
		}
		st.items[it.ID] = &it
		st.itemOrder = append(st.itemOrder, &it)
	}

	valid := make([]core.Interaction, 0, len(interactions))
	for _, in := range interactions {
		if err := in.Validate(); err != nil {
			interactionsRejected.Inc()
			e.logger.Warn().Err(err).Str("user_id", in.UserID).Str("item_id", in.ItemID).
				Msg("skip malformed initial interaction")
			continue
		}
		valid = append(valid, in)
	}
	st.log = feedback.NewLog(e.cfg.LogCap, valid)
	rebuildDuration.Observe(st.rebuild().Seconds())
	e.st = st
	e.buildPipelines()
	e.updateGauges()

	e.logger.Info().
		Int("users", len(st.userOrder)).
		Int("items", len(st.itemOrder)).
		Int("interactions", st.log.Len()).
		Int("log_cap", st.log.Capacity()).
		Msg("engine ready")
	return e, nil
}

func (e *Engine) buildPipelines() {
	s := e.strategies
	if s.Collaborative == nil {
		s.Collaborative = &recall.UserBasedCF{TopKSimilarUsers: e.cfg.NeighborCount}
	}
	if s.Content == nil {
		s.Content = &recall.ContentRecall{}
	}
	if s.Trending == nil {
		s.Trending = &recall.Trending{Window: e.cfg.TrendingWindow}
	}
	e.strategies = s

	onError := func(source string, err error) {
		e.logger.Warn().Err(err).Str("source", source).Msg("recall source failed")
	}
	filters := &filter.FilterNode{
		Filters: append([]filter.Filter{&filter.InteractedFilter{}}, e.filters...),
		OnFiltered: func(rec *core.Recommendation, name string) {
			e.logger.Trace().Str("item_id", rec.ItemID).Str("filter", name).Msg("candidate filtered")
		},
		OnError: func(rec *core.Recommendation, name string, err error) {
			filterErrors.WithLabelValues(name).Inc()
			e.logger.Warn().Err(err).Str("item_id", rec.ItemID).Str("filter", name).Msg("filter failed, candidate kept")
		},
	}

	blend := e.cfg.Blend
	e.cold = &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Fanout{
			Sources: []recall.Quota{
				{Source: s.Content, Share: blend.Cold.Content},
				{Source: s.Trending, Share: blend.Cold.Trending},
			},
			Dedup:   true,
			OnError: onError,
		},
		filters,
		&rerank.TopNNode{},
		&rerank.RelabelNode{Algorithm: core.AlgorithmNewUser},
	}}
	e.warm = &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Fanout{
			Sources: []recall.Quota{
				{Source: s.Collaborative, Share: blend.Warm.Collaborative},
				{Source: s.Content, Share: blend.Warm.Content},
				{Source: s.Trending, Share: blend.Warm.Trending},
			},
			Dedup:   true,
			OnError: onError,
		},
		filters,
		&rerank.ScoreSortNode{},
		&rerank.TopNNode{},
	}}
}

// Config 返回引擎参数。
func (e *Engine) Config() Config {
	return e.cfg
}

// GetRecommendations 返回给 userID 的推荐结果，最多 limit 个。
//
//   - 偏好条目数 < ColdStartThreshold：内容 + 热门，拼接去重后截断，Algorithm 统一为 new-user
//   - 否则：协同过滤 + 内容 + 热门，拼接去重后按分数降序稳定排序再截断
//
// limit <= 0、未知用户、空目录都返回空结果而不是错误。
func (e *Engine) GetRecommendations(ctx context.Context, userID string, limit int) ([]*core.Recommendation, error) {
	start := time.Now()
	if limit <= 0 {
		observeRequest("recommend", "none", start)
		return []*core.Recommendation{}, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	rctx := &core.RecommendContext{
		UserID:    userID,
		RequestID: uuid.NewString(),
		Now:       e.now(),
		Limit:     limit,
		Data:      e.st,
	}
	// 召回源并发执行，画像在进入 Fanout 之前构建好
	profile := rctx.GetUserProfile()

	branch, p := branchWarm, e.warm
	if profile.IsColdStart(e.cfg.ColdStartThreshold) {
		branch, p = branchCold, e.cold
	}
	rctx.PutLabel(utils.LabelBranch, utils.Label{Value: branch, Source: "engine"})

	recs, err := p.Run(ctx, rctx, nil)
	observeRequest("recommend", branch, start)
	if err != nil {
		e.logger.Error().Err(err).Str("request_id", rctx.RequestID).Str("user_id", userID).Msg("recommend failed")
		return nil, fmt.Errorf("recommend %s: %w", userID, err)
	}
	if recs == nil {
		recs = []*core.Recommendation{}
	}
	recommendationsReturned.Observe(float64(len(recs)))

	e.logger.Debug().
		Str("request_id", rctx.RequestID).
		Str("user_id", userID).
		Str("branch", branch).
		Int("entries", profile.InteractionCount).
		Int("limit", limit).
		Int("returned", len(recs)).
		Dur("latency", time.Since(start)).
		Msg("recommend")
	return recs, nil
}

// GetSimilarUsers 返回与 userID 正相似的用户（相似度降序，同分按 userID 升序），最多 limit 个。
// limit <= 0 返回空结果；调用方通常传 DefaultSimilarUsersLimit。
func (e *Engine) GetSimilarUsers(_ context.Context, userID string, limit int) []string {
	start := time.Now()
	defer observeRequest("similar_users", "none", start)
	if limit <= 0 {
		return []string{}
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.SimilarUsers(userID, limit)
}

// GetSimilarNeighbors 与 GetSimilarUsers 相同，但同时返回相似度。
func (e *Engine) GetSimilarNeighbors(_ context.Context, userID string, limit int) []matrix.Neighbor {
	if limit <= 0 {
		return []matrix.Neighbor{}
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.matrix.SimilarUsers(userID, limit)
}

// Similarity 返回两个用户当前的余弦相似度。
func (e *Engine) Similarity(_ context.Context, userA, userB string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.Similarity(userA, userB)
}

// GetPopularItems 返回按近期热度重新计算 Popularity 的物品副本。
//
// 热度 = PopularWindow 内的加权行为数（like 3，purchase 5，其他 1）+ 原始 Popularity，
// 按热度降序（同分按 ID 升序）。category 为空时不过滤，否则精确匹配。
// 目录中的物品本身不会被修改。
func (e *Engine) GetPopularItems(_ context.Context, category string) []core.Item {
	start := time.Now()
	defer observeRequest("popular_items", "none", start)

	e.mu.RLock()
	defer e.mu.RUnlock()

	recent := make(map[string]float64)
	for _, in := range e.st.log.Since(e.now().Add(-e.cfg.PopularWindow)) {
		recent[in.ItemID] += popularityWeight(in.Type)
	}

	out := make([]core.Item, 0, len(e.st.itemOrder))
	for _, it := range e.st.itemOrder {
		if category != "" && it.Category != category {
			continue
		}
		cp := *it
		cp.Genres = append([]string(nil), it.Genres...)
		cp.Popularity = recent[it.ID] + it.Popularity
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func popularityWeight(t core.InteractionType) float64 {
	switch t {
	case core.InteractionLike:
		return 3
	case core.InteractionPurchase:
		return 5
	default:
		return 1
	}
}

// RecordInteraction 校验并记录一条行为：插入日志（超出容量淘汰最旧的），然后全量重建偏好矩阵。
//
// 畸形记录返回 INVALID_INPUT 领域错误，状态不变。
// 提交成功后在锁外写入 Sink；Sink 失败只记录日志，不影响返回值。
func (e *Engine) RecordInteraction(ctx context.Context, in core.Interaction) error {
	start := time.Now()
	defer observeRequest("record", "none", start)

	if err := in.Validate(); err != nil {
		interactionsRejected.Inc()
		e.logger.Warn().Err(err).Str("user_id", in.UserID).Str("item_id", in.ItemID).Msg("interaction rejected")
		return err
	}

	e.mu.Lock()
	evicted := e.st.log.Insert(in)
	took := e.st.rebuild()
	e.updateGauges()
	e.mu.Unlock()

	rebuildDuration.Observe(took.Seconds())
	interactionsRecorded.WithLabelValues(string(in.Type)).Inc()
	if len(evicted) > 0 {
		e.logger.Debug().Int("evicted", len(evicted)).Time("oldest_evicted", evicted[len(evicted)-1].Timestamp).
			Msg("log over capacity")
	}
	e.logger.Debug().
		Str("user_id", in.UserID).
		Str("item_id", in.ItemID).
		Str("type", string(in.Type)).
		Dur("rebuild", took).
		Msg("interaction recorded")

	if e.sink != nil {
		if err := e.sink.Append(ctx, in); err != nil {
			sinkFailures.Inc()
			e.logger.Warn().Err(err).Str("sink", e.sink.Name()).Msg("sink append failed")
		}
	}
	return nil
}

// updateGauges 需在持有锁时调用。
func (e *Engine) updateGauges() {
	logSize.Set(float64(e.st.log.Len()))
	matrixUsers.Set(float64(e.st.matrix.Len()))
}

// Interactions 返回当前日志的副本（新到旧）。
func (e *Engine) Interactions() []core.Interaction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]core.Interaction(nil), e.st.log.Entries()...)
}

// UserItems 返回用户当前偏好分的副本。
func (e *Engine) UserItems(userID string) map[string]float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	src := e.st.GetUserItems(userID)
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Users 返回目录中的用户（构造顺序）。
func (e *Engine) Users() []core.User {
	out := make([]core.User, 0, len(e.st.userOrder))
	for _, u := range e.st.userOrder {
		out = append(out, *u)
	}
	return out
}

// Items 返回目录中的物品（构造顺序）。
func (e *Engine) Items() []core.Item {
	out := make([]core.Item, 0, len(e.st.itemOrder))
	for _, it := range e.st.itemOrder {
		out = append(out, *it)
	}
	return out
}
