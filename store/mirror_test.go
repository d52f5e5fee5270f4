package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/rtrec/core"
)

var t0 = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

func interaction(i int) core.Interaction {
	return core.Interaction{
		UserID:    fmt.Sprintf("u%d", i%3),
		ItemID:    fmt.Sprintf("i%d", i),
		Type:      core.InteractionLike,
		Timestamp: t0.Add(time.Duration(i) * time.Minute),
	}
}

func TestMirror_AppendTrimsAndLoadsNewestFirst(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	m := NewMirror(kv, MirrorConfig{KeyPrefix: "test", Capacity: 3}, zerolog.Nop())
	assert.Equal(t, "test:interactions", m.Key())
	assert.Equal(t, "mirror.memory", m.Name())

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Append(ctx, interaction(i)))
	}
	n, err := kv.ZCard(ctx, m.Key())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "i4", loaded[0].ItemID)
	assert.Equal(t, "i2", loaded[2].ItemID)
	assert.True(t, loaded[0].Timestamp.Equal(interaction(4).Timestamp))
	assert.Equal(t, core.InteractionLike, loaded[0].Type)
}

func TestMirror_DuplicateInteractionsAreKept(t *testing.T) {
	ctx := context.Background()
	m := NewMirror(NewMemoryStore(), MirrorConfig{}, zerolog.Nop())

	in := interaction(1)
	require.NoError(t, m.Append(ctx, in))
	require.NoError(t, m.Append(ctx, in))

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestMirror_SkipsUndecodableMembers(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	m := NewMirror(kv, MirrorConfig{}, zerolog.Nop())

	require.NoError(t, m.Append(ctx, interaction(1)))
	require.NoError(t, kv.ZAdd(ctx, m.Key(), 1, "not json"))

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

// flakyStore 在 fail 为 true 时所有有序集合操作都失败。
type flakyStore struct {
	*MemoryStore
	fail  bool
	calls int
}

func (f *flakyStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	f.calls++
	if f.fail {
		return errors.New("connection reset")
	}
	return f.MemoryStore.ZAdd(ctx, key, score, member)
}

func TestMirror_CircuitBreakerOpens(t *testing.T) {
	ctx := context.Background()
	kv := &flakyStore{MemoryStore: NewMemoryStore(), fail: true}
	m := NewMirror(kv, MirrorConfig{Breaker: BreakerConfig{FailureThreshold: 2, Timeout: time.Hour}}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		err := m.Append(ctx, interaction(i))
		require.Error(t, err)
		assert.False(t, core.IsUnavailable(err))
	}
	assert.Equal(t, "open", m.State())

	err := m.Append(ctx, interaction(3))
	require.Error(t, err)
	assert.True(t, core.IsUnavailable(err))
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, kv.calls)

	_, err = m.Load(ctx)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}
