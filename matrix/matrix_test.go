package matrix

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/rtrec/core"
)

var t0 = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func inter(user, item string, typ core.InteractionType) core.Interaction {
	return core.Interaction{UserID: user, ItemID: item, Type: typ, Timestamp: t0}
}

func randomLog(r *rand.Rand, n int) []core.Interaction {
	types := core.InteractionTypes()
	out := make([]core.Interaction, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, core.Interaction{
			UserID:    fmt.Sprintf("u%d", r.Intn(8)),
			ItemID:    fmt.Sprintf("i%d", r.Intn(15)),
			Type:      types[r.Intn(len(types))],
			Timestamp: t0.Add(-time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestBuild_Weights(t *testing.T) {
	tests := []struct {
		name  string
		log   []core.Interaction
		want  float64
		exist bool
	}{
		{name: "view", log: []core.Interaction{inter("u1", "i1", core.InteractionView)}, want: 1, exist: true},
		{name: "like", log: []core.Interaction{inter("u1", "i1", core.InteractionLike)}, want: 3, exist: true},
		{name: "purchase", log: []core.Interaction{inter("u1", "i1", core.InteractionPurchase)}, want: 5, exist: true},
		{name: "share", log: []core.Interaction{inter("u1", "i1", core.InteractionShare)}, want: 4, exist: true},
		{name: "dislike", log: []core.Interaction{inter("u1", "i1", core.InteractionDislike)}, want: -2, exist: true},
		{
			name: "repeated views accumulate",
			log: []core.Interaction{
				inter("u1", "i1", core.InteractionView),
				inter("u1", "i1", core.InteractionView),
				inter("u1", "i1", core.InteractionView),
			},
			want: 3, exist: true,
		},
		{
			name: "dislike offsets a like",
			log: []core.Interaction{
				inter("u1", "i1", core.InteractionLike),
				inter("u1", "i1", core.InteractionDislike),
			},
			want: 1, exist: true,
		},
		{
			name: "like and dislike keep the entry at zero",
			log: []core.Interaction{
				inter("u1", "i1", core.InteractionView),
				inter("u1", "i1", core.InteractionView),
				inter("u1", "i1", core.InteractionDislike),
			},
			want: 0, exist: true,
		},
		{name: "empty log", log: nil, want: 0, exist: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build(tt.log)
			got, ok := m.Score("u1", "i1")
			assert.Equal(t, tt.exist, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_Invariant(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		log := randomLog(r, 200)
		m := Build(log)

		want := make(map[[2]string]float64)
		for _, in := range log {
			want[[2]string{in.UserID, in.ItemID}] += in.Type.Weight()
		}
		require.Equal(t, len(want), m.Entries())
		for k, w := range want {
			got, ok := m.Score(k[0], k[1])
			require.True(t, ok)
			require.Equal(t, w, got)
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	log := randomLog(r, 300)

	first := Build(log)
	second := Build(log)
	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Users(), second.Users())

	// 从空日志重建不残留任何状态
	assert.Equal(t, 0, Build(nil).Len())
	assert.Equal(t, 0, Empty().Entries())
}

func TestMatrix_CountAndUsers(t *testing.T) {
	m := Build([]core.Interaction{
		inter("u2", "i1", core.InteractionView),
		inter("u1", "i1", core.InteractionView),
		inter("u1", "i2", core.InteractionDislike),
		inter("u1", "i1", core.InteractionLike),
	})

	assert.Equal(t, []string{"u1", "u2"}, m.Users())
	assert.Equal(t, 2, m.Count("u1"))
	assert.Equal(t, 1, m.Count("u2"))
	assert.Equal(t, 0, m.Count("missing"))
	assert.True(t, m.Has("u1", "i2"))
	assert.False(t, m.Has("u2", "i2"))
	assert.Nil(t, m.UserItems("missing"))
}
