package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/feedback"
)

// BreakerConfig 是外部存储熔断器的参数。
type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"`      // 半开状态允许的探测请求数
	Interval         time.Duration `koanf:"interval"`          // 闭合状态下清零计数的周期
	Timeout          time.Duration `koanf:"timeout"`           // 打开多久后进入半开
	FailureThreshold uint32        `koanf:"failure_threshold"` // 连续失败多少次后打开
}

// DefaultBreakerConfig 返回默认熔断参数。
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// MirrorConfig 是行为日志镜像的参数。
type MirrorConfig struct {
	KeyPrefix string
	Capacity  int
	Breaker   BreakerConfig
}

// Mirror 把已提交的行为写穿到外部有序集合，进程重启时可以回放。
//
// 有序集合 key 为 {KeyPrefix}:interactions，member 为 JSON 编码的记录，score 为毫秒时间戳；
// 每次写入后只保留最新的 Capacity 条。所有外部调用都经过熔断器。
//
// Mirror 实现 feedback.Sink，引擎从不在查询路径上读取它。
type Mirror struct {
	kv       core.KeyValueStore
	key      string
	capacity int
	cb       *gobreaker.CircuitBreaker[any]
	logger   zerolog.Logger
}

var _ feedback.Sink = (*Mirror)(nil)

// mirrorRecord 带一个唯一 ID，避免完全相同的两条行为在有序集合中被合并。
type mirrorRecord struct {
	ID string `json:"id"`
	core.Interaction
}

// NewMirror 创建镜像。cfg 中的零值使用默认值。
func NewMirror(kv core.KeyValueStore, cfg MirrorConfig, logger zerolog.Logger) *Mirror {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rtrec"
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = feedback.DefaultCapacity
	}
	def := DefaultBreakerConfig()
	if cfg.Breaker.MaxRequests == 0 {
		cfg.Breaker.MaxRequests = def.MaxRequests
	}
	if cfg.Breaker.Timeout <= 0 {
		cfg.Breaker.Timeout = def.Timeout
	}
	if cfg.Breaker.FailureThreshold == 0 {
		cfg.Breaker.FailureThreshold = def.FailureThreshold
	}

	logger = logger.With().Str("component", "mirror").Str("backend", kv.Name()).Logger()
	threshold := cfg.Breaker.FailureThreshold
	settings := gobreaker.Settings{
		Name:        "mirror-" + kv.Name(),
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Mirror{
		kv:       kv,
		key:      cfg.KeyPrefix + ":interactions",
		capacity: cfg.Capacity,
		cb:       gobreaker.NewCircuitBreaker[any](settings),
		logger:   logger,
	}
}

func (m *Mirror) Name() string { return "mirror." + m.kv.Name() }

// Key 返回有序集合的 key。
func (m *Mirror) Key() string { return m.key }

// State 返回熔断器当前状态（closed / half-open / open）。
func (m *Mirror) State() string { return m.cb.State().String() }

// Append 写入一条行为，并把集合裁剪到容量以内。
func (m *Mirror) Append(ctx context.Context, in core.Interaction) error {
	member, err := json.Marshal(mirrorRecord{ID: uuid.NewString(), Interaction: in})
	if err != nil {
		return fmt.Errorf("mirror: encode interaction: %w", err)
	}
	score := float64(in.Timestamp.UnixMilli())

	_, err = m.cb.Execute(func() (any, error) {
		if err := m.kv.ZAdd(ctx, m.key, score, string(member)); err != nil {
			return nil, err
		}
		n, err := m.kv.ZCard(ctx, m.key)
		if err != nil {
			return nil, err
		}
		if excess := n - int64(m.capacity); excess > 0 {
			return nil, m.kv.ZRemRangeByRank(ctx, m.key, 0, excess-1)
		}
		return nil, nil
	})
	return m.wrap("append", err)
}

// Load 返回镜像中最新的 Capacity 条行为（新到旧）。无法解码的记录被跳过。
func (m *Mirror) Load(ctx context.Context) ([]core.Interaction, error) {
	res, err := m.cb.Execute(func() (any, error) {
		return m.kv.ZRange(ctx, m.key, 0, int64(m.capacity)-1)
	})
	if err != nil {
		return nil, m.wrap("load", err)
	}
	members, _ := res.([]string)

	out := make([]core.Interaction, 0, len(members))
	for _, member := range members {
		var rec mirrorRecord
		if err := json.Unmarshal([]byte(member), &rec); err != nil {
			m.logger.Warn().Err(err).Msg("skip undecodable mirror record")
			continue
		}
		out = append(out, rec.Interaction)
	}
	return out, nil
}

func (m *Mirror) wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("mirror %s: circuit %s: %w: %w", op, m.State(), core.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("mirror %s: %w", op, err)
	}
}
