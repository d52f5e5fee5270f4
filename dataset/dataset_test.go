package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/rtrec/core"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

const sampleYAML = `
users:
  - id: u1
    name: Alice
    preferences: [Movies]
items:
  - id: m1
    title: Orbit
    category: Movies
    genres: [Action, Sci-Fi]
    rating: 4.5
    popularity: 80
interactions:
  - user_id: u1
    item_id: m1
    type: like
    timestamp: 2026-10-14T08:00:00Z
    rating: 5
`

func TestLoadFile_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	ds, err := LoadFile(path, now)
	require.NoError(t, err)
	require.Len(t, ds.Users, 1)
	require.Len(t, ds.Items, 1)
	require.Len(t, ds.Interactions, 1)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, ds.Items[0].Genres)
	assert.Equal(t, core.InteractionLike, ds.Interactions[0].Type)
	assert.True(t, ds.Interactions[0].Timestamp.Equal(time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)))
	assert.NoError(t, ds.Interactions[0].Validate())

	// 写成 JSON 再读回
	jsonPath := filepath.Join(dir, "data.json")
	require.NoError(t, WriteFile(jsonPath, ds))
	again, err := LoadFile(jsonPath, now)
	require.NoError(t, err)
	assert.Equal(t, ds.Items, again.Items)
	assert.Equal(t, ds.Users[0].Preferences, again.Users[0].Preferences)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "data.txt"), now)
	assert.True(t, core.IsNotSupported(err))

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"), now)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = LoadFile(bad, now)
	assert.True(t, core.IsInvalidInput(err))

	assert.True(t, core.IsNotSupported(WriteFile(filepath.Join(dir, "out.csv"), &Dataset{})))
}

const sampleReviews = `product_id,user_id,rating,review_text,product_title,category,timestamp,verified_purchase
p1,A1B2C3D4,5,Great sound and battery,Headphones X,Electronics,2026-10-01T10:00:00Z,true
p2,A1B2C3D4,4,Loved it,Deep Work,Books,2026-10-02,false
p1,ZZ99,2,Broke after a week,Headphones X,Electronics,,true
p3,ZZ99,3,Okay,Garden Hose,Garden,1760000000,
p4,A1B2C3D4,5,Fun,Movie Night,Movies & TV Music Specials,2026-10-03 09:30:00,
p5,A1B2C3D4,4,Comfy,Trainers,Sports Clothing,2026-10-04T00:00:00Z,
`

func TestLoadReviewsCSV(t *testing.T) {
	ds, err := LoadReviewsCSV(strings.NewReader(sampleReviews), now)
	require.NoError(t, err)

	require.Len(t, ds.Items, 5)
	p1 := ds.Items[0]
	assert.Equal(t, "p1", p1.ID)
	assert.Equal(t, 5.0, p1.Rating, "first review wins")
	assert.Equal(t, []string{"Tech", "Gadgets"}, p1.Genres)
	assert.Equal(t, "Great sound and battery...", p1.Description)
	assert.Zero(t, p1.Popularity)
	assert.Equal(t, 2026, p1.ReleaseYear)
	assert.Equal(t, []string{"General"}, ds.Items[2].Genres)
	assert.Equal(t, []string{"Entertainment", "Drama"}, ds.Items[3].Genres, "at most two genres")

	require.Len(t, ds.Users, 2)
	assert.Equal(t, "A1B2C3D4", ds.Users[0].ID)
	assert.Equal(t, "User C3D4", ds.Users[0].Name)
	assert.Equal(t, []string{"Electronics", "Books", "Movies & TV Music Specials"}, ds.Users[0].Preferences)
	assert.Equal(t, "User ZZ99", ds.Users[1].Name)
	assert.Empty(t, ds.Users[1].Preferences)

	require.Len(t, ds.Interactions, 6)
	types := make([]core.InteractionType, 0, len(ds.Interactions))
	for _, in := range ds.Interactions {
		types = append(types, in.Type)
		assert.NoError(t, in.Validate())
	}
	assert.Equal(t, []core.InteractionType{
		core.InteractionLike, core.InteractionLike, core.InteractionDislike,
		core.InteractionView, core.InteractionLike, core.InteractionLike,
	}, types)
	assert.True(t, ds.Interactions[2].Timestamp.Equal(now), "missing timestamp uses now")
	assert.True(t, ds.Interactions[3].Timestamp.Equal(time.Unix(1760000000, 0)))
	assert.Equal(t, 2.0, ds.Interactions[2].Rating)
}

func TestLoadReviewsCSV_LongDescription(t *testing.T) {
	text := strings.Repeat("a", 200)
	csv := "product_id,user_id,rating,review_text,product_title,category\np1,u1,4," + text + ",T,Books\n"
	ds, err := LoadReviewsCSV(strings.NewReader(csv), now)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 150)+"...", ds.Items[0].Description)
}

func TestLoadReviewsCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing column", "product_id,user_id,rating\np1,u1,4\n"},
		{"bad rating", "product_id,user_id,rating,product_title,category\np1,u1,five,T,C\n"},
		{"rating out of range", "product_id,user_id,rating,product_title,category\np1,u1,9,T,C\n"},
		{"missing user", "product_id,user_id,rating,product_title,category\np1,,4,T,C\n"},
		{"bad timestamp", "product_id,user_id,rating,product_title,category,timestamp\np1,u1,4,T,C,yesterday\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReviewsCSV(strings.NewReader(tt.csv), now)
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err))
		})
	}

	ds, err := LoadReviewsCSV(strings.NewReader(""), now)
	require.NoError(t, err)
	assert.Empty(t, ds.Items)
}

func TestGenerate(t *testing.T) {
	opts := GenerateOptions{Seed: 42, Users: 5, Items: 20, Interactions: 100, Now: now}
	a := Generate(opts)
	b := Generate(opts)
	assert.Equal(t, a, b, "same seed, same dataset")

	require.Len(t, a.Users, 5)
	require.Len(t, a.Items, 20)
	require.Len(t, a.Interactions, 100)

	itemIDs := make(map[string]bool)
	for _, it := range a.Items {
		itemIDs[it.ID] = true
		assert.GreaterOrEqual(t, it.Rating, 1.0)
		assert.LessOrEqual(t, it.Rating, 5.0)
		assert.NotEmpty(t, it.Genres)
	}
	for i, in := range a.Interactions {
		require.NoError(t, in.Validate())
		assert.True(t, itemIDs[in.ItemID])
		assert.False(t, in.Timestamp.After(now))
		if i > 0 {
			assert.False(t, in.Timestamp.After(a.Interactions[i-1].Timestamp))
		}
	}

	c := Generate(GenerateOptions{Seed: 7, Interactions: -1, Now: now})
	assert.Len(t, c.Users, 16)
	assert.Len(t, c.Items, 50)
	assert.Empty(t, c.Interactions)
}
