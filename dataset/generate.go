package dataset

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rushteam/rtrec/core"
)

var (
	sampleGenres = []string{
		"Action", "Comedy", "Drama", "Sci-Fi", "Horror", "Romance", "Thriller", "Documentary",
		"Mythological", "Historical", "Family Drama", "Musical",
	}
	sampleCategories = []string{"Movies", "TV Shows", "Documentaries", "Shorts", "Regional Films", "Web Series"}
	sampleTitles     = []string{
		"Galactic Warriors", "Love in Paris", "The Mystery Box", "Robot Revolution",
		"Ocean Depths", "Mountain Peak", "City Lights", "Forest Whispers",
		"Desert Storm", "Arctic Adventure", "Space Odyssey", "Time Traveler",
		"Dream Catcher", "Shadow Hunter", "Light Bearer", "Storm Chaser",
	}
	sampleNames = []string{
		"Alex Chen", "Sarah Johnson", "Mike Davis", "Emma Wilson",
		"John Smith", "Lisa Brown", "David Lee", "Anna Garcia",
		"Arjun Reddy", "Priya Sharma", "Ravi Kumar", "Kavya Nair",
	}
)

// GenerateOptions 控制合成数据的规模。
type GenerateOptions struct {
	Seed         uint64
	Users        int           // 默认 16
	Items        int           // 默认 50
	Interactions int           // 默认 200，负数表示不生成行为
	Span         time.Duration // 行为时间分布在 [Now-Span, Now]，默认 30 天
	Now          time.Time     // 默认 time.Now()
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	if o.Users <= 0 {
		o.Users = 16
	}
	if o.Items <= 0 {
		o.Items = 50
	}
	if o.Interactions < 0 {
		o.Interactions = 0
	} else if o.Interactions == 0 {
		o.Interactions = 200
	}
	if o.Span <= 0 {
		o.Span = 30 * 24 * time.Hour
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Generate 生成一个流媒体平台风格的合成数据集，同一个 Seed 产生相同结果。
// 70% 的行为落在用户偏好 genre 的物品上，行为按时间新到旧排列。
func Generate(opts GenerateOptions) *Dataset {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	users := make([]core.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		users = append(users, core.User{
			ID:          fmt.Sprintf("user_%d", i+1),
			Name:        sampleNames[i%len(sampleNames)],
			Preferences: slices.Clone(sampleGenres[:2+rng.IntN(3)]),
			Age:         18 + rng.IntN(50),
			JoinedAt:    opts.Now.Add(-time.Duration(rng.Int64N(int64(365 * 24 * time.Hour)))),
		})
	}

	items := make([]core.Item, 0, opts.Items)
	for i := 0; i < opts.Items; i++ {
		category := sampleCategories[rng.IntN(len(sampleCategories))]
		genres := []string{sampleGenres[rng.IntN(len(sampleGenres))]}
		if rng.Float64() > 0.5 {
			if g := sampleGenres[rng.IntN(len(sampleGenres))]; g != genres[0] {
				genres = append(genres, g)
			}
		}
		title := sampleTitles[i%len(sampleTitles)]
		if round := i / len(sampleTitles); round > 0 {
			title = fmt.Sprintf("%s (%d)", title, round+1)
		}
		items = append(items, core.Item{
			ID:          fmt.Sprintf("item_%d", i+1),
			Title:       title,
			Category:    category,
			Genres:      genres,
			Rating:      1 + rng.Float64()*4,
			Description: fmt.Sprintf("An amazing %s pick from %s.", strings.Join(genres, "/"), strings.ToLower(category)),
			ReleaseYear: 2015 + rng.IntN(9),
			Popularity:  rng.Float64() * 100,
		})
	}

	types := core.InteractionTypes()
	interactions := make([]core.Interaction, 0, opts.Interactions)
	for i := 0; i < opts.Interactions; i++ {
		u := users[rng.IntN(len(users))]
		item := items[rng.IntN(len(items))]
		if rng.Float64() < 0.7 {
			if preferred := itemsMatching(items, u.Preferences); len(preferred) > 0 {
				item = preferred[rng.IntN(len(preferred))]
			}
		}
		typ := types[rng.IntN(len(types))]
		in := core.Interaction{
			UserID:    u.ID,
			ItemID:    item.ID,
			Type:      typ,
			Timestamp: opts.Now.Add(-time.Duration(rng.Int64N(int64(opts.Span)))),
		}
		switch typ {
		case core.InteractionView:
			in.Duration = float64(5 + rng.IntN(120))
		case core.InteractionLike:
			in.Rating = 4 + rng.Float64()
		case core.InteractionDislike:
			in.Rating = 1 + rng.Float64()
		}
		interactions = append(interactions, in)
	}
	sort.SliceStable(interactions, func(i, j int) bool {
		return interactions[i].Timestamp.After(interactions[j].Timestamp)
	})

	return &Dataset{Users: users, Items: items, Interactions: interactions}
}

func itemsMatching(items []core.Item, genres []string) []core.Item {
	var out []core.Item
	for _, it := range items {
		for _, g := range it.Genres {
			if contains(genres, g) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
