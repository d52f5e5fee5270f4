package recall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/rtrec/core"
)

func contentCatalog() []*core.Item {
	return []*core.Item{
		{ID: "A", Genres: []string{"Drama", "Action"}, Rating: 3},
		{ID: "B", Genres: []string{"Drama"}, Rating: 4, Popularity: 10},
		{ID: "C", Genres: []string{"Comedy"}, Rating: 5},
		{ID: "D", Genres: []string{"Action", "Drama"}, Rating: 1},
		{ID: "E", Genres: []string{"Horror"}},
	}
}

func TestContentRecall_GenreProfile(t *testing.T) {
	data := newFakeData([]string{"u"}, contentCatalog(), []core.Interaction{
		act("u", "A", core.InteractionLike, 0),
	})

	recs, err := (&ContentRecall{}).Recall(context.Background(), rctxFor("u", data), 10)
	require.NoError(t, err)

	// D = 3+3+0.5，B = 3+2+1，C = 2.5；E 为 0 被丢弃；A 已交互被排除
	require.Equal(t, []string{"D", "B", "C"}, itemIDs(recs))
	assert.InDelta(t, 0.65, recs[0].Score, 1e-9)
	assert.InDelta(t, 0.6, recs[1].Score, 1e-9)
	assert.InDelta(t, 0.25, recs[2].Score, 1e-9)
	for _, r := range recs {
		assert.Equal(t, "Matches your preferences for Action and Drama", r.Reason)
		assert.Equal(t, core.AlgorithmContentBased, r.Algorithm)
	}
}

func TestContentRecall_ColdStartFallsBackToQuality(t *testing.T) {
	data := newFakeData([]string{"u"}, contentCatalog(), nil)

	recs, err := (&ContentRecall{}).Recall(context.Background(), rctxFor("u", data), 2)
	require.NoError(t, err)
	// B = 2+1，C = 2.5
	require.Equal(t, []string{"B", "C"}, itemIDs(recs))
	assert.Equal(t, reasonContentFallback, recs[0].Reason)
}

func TestContentRecall_NegativeAffinityIgnored(t *testing.T) {
	data := newFakeData([]string{"u"}, contentCatalog(), []core.Interaction{
		act("u", "C", core.InteractionDislike, 0),
	})

	recs, err := (&ContentRecall{}).Recall(context.Background(), rctxFor("u", data), 10)
	require.NoError(t, err)
	assert.NotContains(t, itemIDs(recs), "C")
	assert.Equal(t, reasonContentFallback, recs[0].Reason)
}

func TestContentRecall_Degenerate(t *testing.T) {
	data := newFakeData([]string{"u"}, contentCatalog(), nil)
	ctx := context.Background()

	recs, err := (&ContentRecall{}).Recall(ctx, rctxFor("stranger", data), 10)
	assert.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = (&ContentRecall{}).Recall(ctx, rctxFor("u", data), 0)
	assert.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = (&ContentRecall{}).Recall(ctx, rctxFor("u", newFakeData([]string{"u"}, nil, nil)), 5)
	assert.NoError(t, err)
	assert.Empty(t, recs)
}

func TestContentReason(t *testing.T) {
	assert.Equal(t, reasonContentFallback, contentReason(nil))
	assert.Equal(t, "Matches your preferences for Jazz", contentReason([]string{"Jazz"}))
	assert.Equal(t, "Matches your preferences for Jazz and Rock", contentReason([]string{"Jazz", "Rock"}))
}
