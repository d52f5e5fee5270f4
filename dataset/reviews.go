package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rushteam/rtrec/core"
)

const (
	descriptionLimit  = 150
	maxGenres         = 2
	maxPreferences    = 3
	defaultGenre      = "General"
	defaultLanguage   = "English"
	likeRatingFloor   = 4
	dislikeRatingCeil = 2
)

// 评论 CSV 的列名。
const (
	ColProductID        = "product_id"
	ColUserID           = "user_id"
	ColRating           = "rating"
	ColReviewText       = "review_text"
	ColProductTitle     = "product_title"
	ColCategory         = "category"
	ColTimestamp        = "timestamp"
	ColVerifiedPurchase = "verified_purchase"
)

var requiredColumns = []string{ColProductID, ColUserID, ColRating, ColProductTitle, ColCategory}

// categoryGenres 把商品类目映射成 genre，类目名包含关键字（不区分大小写）即命中。
var categoryGenres = []struct {
	keyword string
	genres  []string
}{
	{"electronics", []string{"Tech", "Gadgets"}},
	{"books", []string{"Literature", "Educational"}},
	{"movies & tv", []string{"Entertainment", "Drama"}},
	{"music", []string{"Audio", "Entertainment"}},
	{"home & kitchen", []string{"Lifestyle", "Home"}},
	{"clothing", []string{"Fashion", "Apparel"}},
	{"sports", []string{"Fitness", "Recreation"}},
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Review 是评论 CSV 的一行。
type Review struct {
	ProductID        string
	UserID           string
	Rating           float64
	ReviewText       string
	ProductTitle     string
	Category         string
	Timestamp        time.Time // 零值表示缺失
	VerifiedPurchase bool
}

// LoadReviewsCSV 从商品评论 CSV 构建数据集。
//
//   - 物品取自每个商品的第一条评论，genre 由类目推断（最多 2 个，默认 General），
//     描述取评论前 150 个字符加 "..."，热度为 0
//   - 用户偏好为其 >= 4 分评论的前 3 个不同类目
//   - 行为类型：>= 4 分 like，<= 2 分 dislike，其余 view；缺失的时间戳使用 now
func LoadReviewsCSV(r io.Reader, now time.Time) (*Dataset, error) {
	reviews, err := ReadReviews(r)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Users:        usersFromReviews(reviews),
		Items:        itemsFromReviews(reviews, now),
		Interactions: interactionsFromReviews(reviews, now),
	}, nil
}

// ReadReviews 解析评论 CSV，首行必须是表头。
func ReadReviews(r io.Reader) ([]Review, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, csvError(1, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
				fmt.Sprintf("dataset: reviews csv missing column %q", c))
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var reviews []Review
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(line, err)
		}

		rv := Review{
			ProductID:    field(rec, ColProductID),
			UserID:       field(rec, ColUserID),
			ReviewText:   field(rec, ColReviewText),
			ProductTitle: field(rec, ColProductTitle),
			Category:     field(rec, ColCategory),
		}
		if rv.ProductID == "" || rv.UserID == "" {
			return nil, csvError(line, errors.New("product_id and user_id are required"))
		}
		if rv.Rating, err = strconv.ParseFloat(field(rec, ColRating), 64); err != nil {
			return nil, csvError(line, fmt.Errorf("rating: %w", err))
		}
		if rv.Rating < 1 || rv.Rating > 5 {
			return nil, csvError(line, fmt.Errorf("rating %v out of range [1, 5]", rv.Rating))
		}
		if ts := field(rec, ColTimestamp); ts != "" {
			if rv.Timestamp, err = parseTimestamp(ts); err != nil {
				return nil, csvError(line, err)
			}
		}
		if v := field(rec, ColVerifiedPurchase); v != "" {
			rv.VerifiedPurchase, _ = strconv.ParseBool(v)
		}
		reviews = append(reviews, rv)
	}
	return reviews, nil
}

func csvError(line int, err error) error {
	return core.WrapDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
		fmt.Sprintf("dataset: reviews csv line %d", line), err)
}

// parseTimestamp 支持 RFC3339、常见日期格式和 Unix 秒。
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func itemsFromReviews(reviews []Review, now time.Time) []core.Item {
	seen := make(map[string]bool)
	items := make([]core.Item, 0)
	for _, rv := range reviews {
		if seen[rv.ProductID] {
			continue
		}
		seen[rv.ProductID] = true
		items = append(items, core.Item{
			ID:          rv.ProductID,
			Title:       rv.ProductTitle,
			Category:    rv.Category,
			Genres:      genresFor(rv.Category),
			Rating:      rv.Rating,
			Description: truncate(rv.ReviewText, descriptionLimit) + "...",
			ReleaseYear: now.Year(),
			Language:    defaultLanguage,
		})
	}
	return items
}

func usersFromReviews(reviews []Review) []core.User {
	index := make(map[string]int)
	users := make([]core.User, 0)
	for _, rv := range reviews {
		i, ok := index[rv.UserID]
		if !ok {
			i = len(users)
			index[rv.UserID] = i
			users = append(users, core.User{ID: rv.UserID, Name: "User " + lastN(rv.UserID, 4)})
		}
		u := &users[i]
		if rv.Rating < likeRatingFloor || len(u.Preferences) >= maxPreferences || contains(u.Preferences, rv.Category) {
			continue
		}
		u.Preferences = append(u.Preferences, rv.Category)
	}
	return users
}

func interactionsFromReviews(reviews []Review, now time.Time) []core.Interaction {
	out := make([]core.Interaction, 0, len(reviews))
	for _, rv := range reviews {
		typ := core.InteractionView
		switch {
		case rv.Rating >= likeRatingFloor:
			typ = core.InteractionLike
		case rv.Rating <= dislikeRatingCeil:
			typ = core.InteractionDislike
		}
		ts := rv.Timestamp
		if ts.IsZero() {
			ts = now
		}
		out = append(out, core.Interaction{
			UserID:    rv.UserID,
			ItemID:    rv.ProductID,
			Type:      typ,
			Timestamp: ts,
			Rating:    rv.Rating,
		})
	}
	return out
}

func genresFor(category string) []string {
	lower := strings.ToLower(category)
	var genres []string
	for _, m := range categoryGenres {
		if !strings.Contains(lower, m.keyword) {
			continue
		}
		for _, g := range m.genres {
			if !contains(genres, g) {
				genres = append(genres, g)
			}
		}
	}
	if len(genres) == 0 {
		return []string{defaultGenre}
	}
	if len(genres) > maxGenres {
		genres = genres[:maxGenres]
	}
	return genres
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func lastN(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
