package builders_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/rtrec/config"
	_ "github.com/rushteam/rtrec/config/builders"
	"github.com/rushteam/rtrec/recall"
)

func TestSupportedTypes(t *testing.T) {
	assert.Equal(t, []string{"collaborative", "content", "trending"}, config.SupportedTypes())
}

func TestBuildSource(t *testing.T) {
	src, err := config.BuildSource("collaborative", map[string]any{"top_k": 5})
	require.NoError(t, err)
	assert.Equal(t, &recall.UserBasedCF{TopKSimilarUsers: 5}, src)

	src, err = config.BuildSource("content", map[string]any{"rating_weight": 0.8, "score_divisor": "20"})
	require.NoError(t, err)
	assert.Equal(t, &recall.ContentRecall{RatingWeight: 0.8, ScoreDivisor: 20}, src)

	src, err = config.BuildSource("trending", map[string]any{"window": "48h"})
	require.NoError(t, err)
	assert.Equal(t, &recall.Trending{Window: 48 * time.Hour}, src)

	src, err = config.BuildSource("trending", nil)
	require.NoError(t, err)
	assert.Equal(t, "recall.trending", src.Name())
}

func TestBuildSource_Errors(t *testing.T) {
	tests := []struct {
		typ    string
		params map[string]any
	}{
		{"collaborative", map[string]any{"top_k": -1}},
		{"content", map[string]any{"popularity_weight": -0.1}},
		{"trending", map[string]any{"window": "-1h"}},
		{"item-cf", nil},
	}
	for _, tt := range tests {
		_, err := config.BuildSource(tt.typ, tt.params)
		assert.Error(t, err, tt.typ)
	}
}

func TestConfig_BuildStrategies(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Strategies.Trending = config.SourceConfig{Type: "trending", Params: map[string]any{"window": "24h"}}
	cfg.Strategies.Collaborative = config.SourceConfig{Type: "collaborative", Params: map[string]any{"top_k": 3}}

	s, err := cfg.BuildStrategies()
	require.NoError(t, err)
	assert.Equal(t, &recall.Trending{Window: 24 * time.Hour}, s.Trending)
	assert.Equal(t, &recall.UserBasedCF{TopKSimilarUsers: 3}, s.Collaborative)
	assert.Nil(t, s.Content)
}
