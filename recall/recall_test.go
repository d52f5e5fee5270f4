package recall

import (
	"time"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/matrix"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

// fakeData 是测试用的只读数据视图，直接由行为列表构建。
type fakeData struct {
	m     *matrix.Matrix
	items []*core.Item
	byID  map[string]*core.Item
	users map[string]*core.User
	log   []core.Interaction
}

func newFakeData(users []string, items []*core.Item, log []core.Interaction) *fakeData {
	d := &fakeData{
		m:     matrix.Build(log),
		items: items,
		byID:  make(map[string]*core.Item, len(items)),
		users: make(map[string]*core.User, len(users)),
		log:   log,
	}
	for _, it := range items {
		d.byID[it.ID] = it
	}
	for _, u := range users {
		d.users[u] = &core.User{ID: u}
	}
	return d
}

func (d *fakeData) GetUserItems(userID string) map[string]float64 { return d.m.UserItems(userID) }
func (d *fakeData) GetAllUsers() []string                        { return d.m.Users() }
func (d *fakeData) Similarity(a, b string) float64               { return d.m.Similarity(a, b) }

func (d *fakeData) SimilarUsers(userID string, limit int) []string {
	var out []string
	for _, n := range d.m.SimilarUsers(userID, limit) {
		out = append(out, n.UserID)
	}
	return out
}

func (d *fakeData) GetItem(id string) (*core.Item, bool) {
	it, ok := d.byID[id]
	return it, ok
}

func (d *fakeData) GetAllItems() []*core.Item { return d.items }

func (d *fakeData) GetUser(id string) (*core.User, bool) {
	u, ok := d.users[id]
	return u, ok
}

func (d *fakeData) GetInteractionsSince(since time.Time) []core.Interaction {
	var out []core.Interaction
	for _, in := range d.log {
		if in.Timestamp.After(since) {
			out = append(out, in)
		}
	}
	return out
}

func act(user, item string, typ core.InteractionType, ago time.Duration) core.Interaction {
	return core.Interaction{UserID: user, ItemID: item, Type: typ, Timestamp: now.Add(-ago)}
}

func rctxFor(userID string, data core.RecallDataStore) *core.RecommendContext {
	return &core.RecommendContext{UserID: userID, Now: now, Limit: 10, Data: data}
}

func itemIDs(recs []*core.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ItemID)
	}
	return out
}
