package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/dataset"
)

var (
	recommendLimit int
	similarLimit   int
	popularCat     string
	popularTop     int

	recordRating   float64
	recordDuration float64
	recordLimit    int

	generateOut  string
	generateOpts dataset.GenerateOptions
)

func init() {
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", 0, "number of recommendations (default engine.default_limit)")
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 0, "number of similar users (default engine.similar_users_limit)")
	popularCmd.Flags().StringVar(&popularCat, "category", "", "exact category to keep")
	popularCmd.Flags().IntVarP(&popularTop, "top", "n", 10, "number of items to print (0 for all)")

	recordCmd.Flags().Float64Var(&recordRating, "rating", 0, "explicit rating 1-5")
	recordCmd.Flags().Float64Var(&recordDuration, "duration", 0, "view duration in seconds")
	recordCmd.Flags().IntVarP(&recordLimit, "limit", "n", 0, "number of refreshed recommendations to print")

	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "output file (.yaml or .json)")
	generateCmd.Flags().Uint64Var(&generateOpts.Seed, "seed", 1, "random seed")
	generateCmd.Flags().IntVar(&generateOpts.Users, "users", 16, "number of users")
	generateCmd.Flags().IntVar(&generateOpts.Items, "items", 50, "number of items")
	generateCmd.Flags().IntVar(&generateOpts.Interactions, "interactions", 200, "number of interactions")
	_ = generateCmd.MarkFlagRequired("out")
}

// recommendCmd 打印某个用户的推荐
var recommendCmd = &cobra.Command{
	Use:   "recommend <user-id>",
	Short: "Recommend items for a user",
	Long: `Recommend items for a user.

Users with fewer than engine.cold_start_threshold distinct interacted items get
the new-user blend (content + trending); everyone else gets collaborative +
content + trending, sorted by score.

Examples:
  rtrec recommend user_1
  rtrec recommend user_1 -n 5 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

// similarCmd 打印口味相近的用户
var similarCmd = &cobra.Command{
	Use:   "similar <user-id>",
	Short: "List users with similar taste",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

// popularCmd 打印近期热度排行
var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List popular items",
	Long: `List items ranked by recent weighted interactions plus their base popularity.

Examples:
  rtrec popular
  rtrec popular --category Movies -n 20`,
	Args: cobra.NoArgs,
	RunE: runPopular,
}

// statsCmd 打印目录和行为日志统计
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show engine statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

// recordCmd 记录一条行为并打印刷新后的推荐
var recordCmd = &cobra.Command{
	Use:   "record <user-id> <item-id> <view|like|dislike|purchase|share>",
	Short: "Record an interaction",
	Long: `Record an interaction and print the user's refreshed recommendations.

With a store backend configured the interaction is mirrored, so a later run
with store.replay enabled starts from it.

Examples:
  rtrec record user_1 item_7 like
  rtrec record user_1 item_9 view --duration 42`,
	Args: cobra.ExactArgs(3),
	RunE: runRecord,
}

// generateCmd 生成合成数据集
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic dataset file",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	limit := recommendLimit
	if limit == 0 {
		limit = a.cfg.Engine.DefaultLimit
	}
	recs, err := a.engine.GetRecommendations(ctx, args[0], limit)
	if err != nil {
		return err
	}
	return printRecommendations(cmd.OutOrStdout(), args[0], recs)
}

type similarUser struct {
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	limit := similarLimit
	if limit == 0 {
		limit = a.cfg.Engine.SimilarUsersLimit
	}
	neighbors := a.engine.GetSimilarNeighbors(ctx, args[0], limit)
	out := make([]similarUser, 0, len(neighbors))
	for _, n := range neighbors {
		out = append(out, similarUser{UserID: n.UserID, Similarity: n.Similarity})
	}
	return printSimilarUsers(cmd.OutOrStdout(), args[0], out)
}

func runPopular(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	items := a.engine.GetPopularItems(ctx, popularCat)
	if popularTop > 0 && len(items) > popularTop {
		items = items[:popularTop]
	}
	title := "Popular items"
	if popularCat != "" {
		title = fmt.Sprintf("Popular in %s", popularCat)
	}
	return printItems(cmd.OutOrStdout(), title, items)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return printStats(cmd.OutOrStdout(), a.engine.Stats(ctx))
}

func runRecord(cmd *cobra.Command, args []string) error {
	typ, err := core.ParseInteractionType(args[2])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	in := core.Interaction{
		UserID:    args[0],
		ItemID:    args[1],
		Type:      typ,
		Timestamp: time.Now(),
		Rating:    recordRating,
		Duration:  recordDuration,
	}
	if err := a.engine.RecordInteraction(ctx, in); err != nil {
		return err
	}

	limit := recordLimit
	if limit == 0 {
		limit = a.cfg.Engine.DefaultLimit
	}
	recs, err := a.engine.GetRecommendations(ctx, in.UserID, limit)
	if err != nil {
		return err
	}
	return printRecommendations(cmd.OutOrStdout(), in.UserID, recs)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ds := dataset.Generate(generateOpts)
	if err := dataset.WriteFile(generateOut, ds); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d users, %d items, %d interactions to %s\n",
		len(ds.Users), len(ds.Items), len(ds.Interactions), generateOut)
	return nil
}
