package builders

import (
	"fmt"

	"github.com/rushteam/rtrec/config"
	"github.com/rushteam/rtrec/pkg/conv"
	"github.com/rushteam/rtrec/recall"
)

func init() {
	config.Register("collaborative", BuildCollaborative)
	config.Register("content", BuildContent)
	config.Register("trending", BuildTrending)
}

// BuildCollaborative 支持 params：top_k。
func BuildCollaborative(params map[string]any) (recall.Source, error) {
	topK := conv.ConfigGetInt64(params, "top_k", 0)
	if topK < 0 {
		return nil, fmt.Errorf("top_k must be non-negative, got %d", topK)
	}
	return &recall.UserBasedCF{TopKSimilarUsers: int(topK)}, nil
}

// BuildContent 支持 params：rating_weight、popularity_weight、score_divisor。
func BuildContent(params map[string]any) (recall.Source, error) {
	src := &recall.ContentRecall{
		RatingWeight:     conv.ConfigGetFloat64(params, "rating_weight", 0),
		PopularityWeight: conv.ConfigGetFloat64(params, "popularity_weight", 0),
		ScoreDivisor:     conv.ConfigGetFloat64(params, "score_divisor", 0),
	}
	if src.RatingWeight < 0 || src.PopularityWeight < 0 || src.ScoreDivisor < 0 {
		return nil, fmt.Errorf("content weights must be non-negative")
	}
	return src, nil
}

// BuildTrending 支持 params：window（"168h" 或秒数）、score_divisor。
func BuildTrending(params map[string]any) (recall.Source, error) {
	src := &recall.Trending{
		Window:       conv.ConfigGetDuration(params, "window", 0),
		ScoreDivisor: conv.ConfigGetFloat64(params, "score_divisor", 0),
	}
	if src.Window < 0 || src.ScoreDivisor < 0 {
		return nil, fmt.Errorf("trending window and score_divisor must be non-negative")
	}
	return src, nil
}
