package feedback

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/rtrec/core"
)

var base = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

func at(user, item string, minutes int) core.Interaction {
	return core.Interaction{
		UserID:    user,
		ItemID:    item,
		Type:      core.InteractionView,
		Timestamp: base.Add(time.Duration(minutes) * time.Minute),
	}
}

func assertNewestFirst(t *testing.T, l *Log) {
	t.Helper()
	entries := l.Entries()
	for i := 1; i < len(entries); i++ {
		require.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp), "index %d out of order", i)
	}
}

func TestNewLog_SortsAndCaps(t *testing.T) {
	l := NewLog(3, []core.Interaction{
		at("u1", "a", 1),
		at("u1", "b", 5),
		at("u1", "c", 3),
		at("u1", "d", 5),
		at("u1", "e", 0),
	})

	require.Equal(t, 3, l.Len())
	assertNewestFirst(t, l)
	// 同一时间戳保留输入顺序
	assert.Equal(t, "b", l.Entries()[0].ItemID)
	assert.Equal(t, "d", l.Entries()[1].ItemID)
	assert.Equal(t, "c", l.Entries()[2].ItemID)

	oldest, ok := l.Oldest()
	require.True(t, ok)
	assert.Equal(t, "c", oldest.ItemID)
}

func TestNewLog_DefaultCapacity(t *testing.T) {
	l := NewLog(0, nil)
	assert.Equal(t, DefaultCapacity, l.Capacity())
	assert.Equal(t, 0, l.Len())
	_, ok := l.Oldest()
	assert.False(t, ok)
}

func TestLog_Insert(t *testing.T) {
	l := NewLog(10, []core.Interaction{at("u1", "a", 10), at("u1", "b", 5)})

	l.Insert(at("u2", "newest", 20))
	assert.Equal(t, "newest", l.Entries()[0].ItemID)

	// 时间戳相同：后插入的排在前面
	l.Insert(at("u3", "tie", 20))
	assert.Equal(t, "tie", l.Entries()[0].ItemID)
	assert.Equal(t, "newest", l.Entries()[1].ItemID)

	// 回填的旧行为落在合适位置
	l.Insert(at("u4", "backfill", 7))
	assertNewestFirst(t, l)
	assert.Equal(t, "backfill", l.Entries()[3].ItemID)
}

func TestLog_InsertAtCapacityEvictsOldest(t *testing.T) {
	initial := make([]core.Interaction, 0, 1000)
	for i := 0; i < 1000; i++ {
		initial = append(initial, at(fmt.Sprintf("u%d", i%7), fmt.Sprintf("i%d", i), i))
	}
	l := NewLog(1000, initial)
	require.Equal(t, 1000, l.Len())

	evicted := l.Insert(at("u1", "fresh", 5000))
	assert.Equal(t, 1000, l.Len())
	require.Len(t, evicted, 1)
	assert.Equal(t, "i0", evicted[0].ItemID)
	assert.Equal(t, "fresh", l.Entries()[0].ItemID)

	oldest, _ := l.Oldest()
	assert.Equal(t, "i1", oldest.ItemID)

	// 比所有记录都旧的行为会被立即淘汰
	evicted = l.Insert(at("u1", "ancient", -100))
	require.Len(t, evicted, 1)
	assert.Equal(t, "ancient", evicted[0].ItemID)
	assert.Equal(t, 1000, l.Len())
}

func TestLog_Since(t *testing.T) {
	l := NewLog(10, []core.Interaction{at("u", "a", 1), at("u", "b", 2), at("u", "c", 3)})

	got := l.Since(base.Add(1 * time.Minute))
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ItemID)
	assert.Equal(t, "b", got[1].ItemID)

	assert.Len(t, l.Since(base), 3)
	assert.Empty(t, l.Since(base.Add(time.Hour)))
}

type recordingSink struct {
	name string
	got  []core.Interaction
	err  error
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Append(_ context.Context, in core.Interaction) error {
	s.got = append(s.got, in)
	return s.err
}

func TestMultiSink(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingSink{name: "a", err: boom}
	b := &recordingSink{name: "b"}

	err := MultiSink{a, b}.Append(context.Background(), at("u", "i", 0))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}
