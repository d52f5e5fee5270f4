// Package store 提供 core.Store / core.KeyValueStore 的实现，以及行为日志的外部镜像。
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rushteam/rtrec/core"
)

// MemoryStore 是内存实现的 KeyValueStore，用于测试/开发/单进程部署。
// 支持 TTL（读取时惰性过期），进程重启后数据丢失。
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]entry
	zsets map[string]map[string]float64 // zset key -> member -> score
	now   func() time.Time
}

type entry struct {
	value    []byte
	expireAt time.Time // 零值表示不过期
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string]entry),
		zsets: make(map[string]map[string]float64),
		now:   time.Now,
	}
}

var _ core.KeyValueStore = (*MemoryStore)(nil)

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok || m.expired(e) {
		return nil, core.ErrStoreNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: append([]byte(nil), value...)}
	if len(ttl) > 0 && ttl[0] > 0 {
		e.expireAt = m.now().Add(time.Duration(ttl[0]) * time.Second)
	}
	m.data[key] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	delete(m.zsets, key)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) expired(e entry) bool {
	return !e.expireAt.IsZero() && m.now().After(e.expireAt)
}

func (m *MemoryStore) ZAdd(_ context.Context, key string, score float64, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.zsets[key] == nil {
		m.zsets[key] = make(map[string]float64)
	}
	m.zsets[key][member] = score
	return nil
}

type pair struct {
	member string
	score  float64
}

// ascending 按分数升序排列，同分按 member 字典序（与 Redis 一致）。
func (m *MemoryStore) ascending(key string) []pair {
	zset := m.zsets[key]
	pairs := make([]pair, 0, len(zset))
	for member, s := range zset {
		pairs = append(pairs, pair{member: member, score: s})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score < pairs[j].score
		}
		return pairs[i].member < pairs[j].member
	})
	return pairs
}

// normalizeRange 把 Redis 风格的 [start, stop]（支持负数下标）转换为 [lo, hi)。
func normalizeRange(start, stop int64, n int) (int, int) {
	size := int64(n)
	if start < 0 {
		start += size
	}
	if stop < 0 {
		stop += size
	}
	start = max(start, 0)
	stop = min(stop, size-1)
	if start > stop {
		return 0, 0
	}
	return int(start), int(stop) + 1
}

func (m *MemoryStore) ZRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pairs := m.ascending(key)
	lo, hi := normalizeRange(start, stop, len(pairs))
	out := make([]string, 0, hi-lo)
	// 降序：第 i 名对应升序中的 len-1-i
	for i := lo; i < hi; i++ {
		out = append(out, pairs[len(pairs)-1-i].member)
	}
	return out, nil
}

func (m *MemoryStore) ZCard(_ context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.zsets[key])), nil
}

func (m *MemoryStore) ZRemRangeByRank(_ context.Context, key string, start, stop int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pairs := m.ascending(key)
	lo, hi := normalizeRange(start, stop, len(pairs))
	for _, p := range pairs[lo:hi] {
		delete(m.zsets[key], p.member)
	}
	if len(m.zsets[key]) == 0 {
		delete(m.zsets, key)
	}
	return nil
}
