package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/engine"
)

var (
	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w, sectionStyle.Render(title))
}

func printRecommendations(w io.Writer, userID string, recs []*core.Recommendation) error {
	if jsonOutput {
		return printJSON(w, map[string]any{"user_id": userID, "recommendations": recs})
	}
	section(w, fmt.Sprintf("Recommendations for %s", userID))
	if len(recs) == 0 {
		fmt.Fprintln(w, dimStyle.Render("(none)"))
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tITEM\tSCORE\tALGORITHM\tSTRATEGY\tREASON")
	for i, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%s\t%s\t%s\n", i+1, r.ItemID, r.Score, r.Algorithm, r.Strategy, r.Reason)
	}
	return tw.Flush()
}

func printSimilarUsers(w io.Writer, userID string, neighbors []similarUser) error {
	if jsonOutput {
		return printJSON(w, map[string]any{"user_id": userID, "similar_users": neighbors})
	}
	section(w, fmt.Sprintf("Users similar to %s", userID))
	if len(neighbors) == 0 {
		fmt.Fprintln(w, dimStyle.Render("(none)"))
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tUSER\tSIMILARITY")
	for i, n := range neighbors {
		fmt.Fprintf(tw, "%d\t%s\t%.4f\n", i+1, n.UserID, n.Similarity)
	}
	return tw.Flush()
}

func printItems(w io.Writer, title string, items []core.Item) error {
	if jsonOutput {
		return printJSON(w, items)
	}
	section(w, title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tITEM\tTITLE\tCATEGORY\tGENRES\tRATING\tPOPULARITY")
	for i, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.1f\t%.1f\n",
			i+1, it.ID, it.Title, it.Category, strings.Join(it.Genres, ","), it.Rating, it.Popularity)
	}
	return tw.Flush()
}

func printStats(w io.Writer, s engine.Stats) error {
	if jsonOutput {
		return printJSON(w, s)
	}
	section(w, "Engine stats")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "users\t%d\n", s.TotalUsers)
	fmt.Fprintf(tw, "items\t%d\n", s.TotalItems)
	fmt.Fprintf(tw, "interactions\t%d\n", s.TotalInteractions)
	fmt.Fprintf(tw, "active users (24h)\t%d\n", s.ActiveUsers)
	fmt.Fprintf(tw, "average rating\t%.2f\n", s.AverageRating)
	if err := tw.Flush(); err != nil {
		return err
	}

	section(w, "Top categories")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range s.TopCategories {
		fmt.Fprintf(tw, "%s\t%d\n", c.Category, c.Count)
	}
	return tw.Flush()
}
