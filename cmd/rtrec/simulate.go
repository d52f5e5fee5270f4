package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/rushteam/rtrec/core"
)

var (
	simulateEvents int
	simulateRate   float64
	simulateWatch  string
	simulateSeed   uint64
	simulateEvery  int
)

func init() {
	simulateCmd.Flags().IntVar(&simulateEvents, "events", 100, "number of interactions to record (0 runs until interrupted)")
	simulateCmd.Flags().Float64Var(&simulateRate, "rate", 20, "interactions per second")
	simulateCmd.Flags().StringVar(&simulateWatch, "watch", "", "user whose recommendations are printed while the stream runs")
	simulateCmd.Flags().Uint64Var(&simulateSeed, "seed", 1, "random seed for the event stream")
	simulateCmd.Flags().IntVar(&simulateEvery, "print-every", 25, "print the watched user's recommendations every N events")
}

// simulateCmd 向引擎持续写入随机行为流
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Stream random interactions into the engine",
	Long: `Stream random interactions into the engine at a fixed rate.

Each event picks a random known user, item and interaction type and goes
through RecordInteraction, so the similarity matrix is rebuilt live. With
metrics.enabled the Prometheus endpoint is served for the duration of the run.

Examples:
  rtrec simulate --events 500 --rate 50 --watch user_1
  RTREC_METRICS_ENABLED=true rtrec simulate --events 0`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	if simulateRate <= 0 {
		return fmt.Errorf("--rate must be positive, got %v", simulateRate)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Metrics.Enabled {
		shutdown := serveMetrics(a.cfg.Metrics.Addr, a.logger)
		defer shutdown()
	}

	users := a.engine.Users()
	items := a.engine.Items()
	if len(users) == 0 || len(items) == 0 {
		return errors.New("simulate needs at least one user and one item")
	}
	types := core.InteractionTypes()

	rng := rand.New(rand.NewPCG(simulateSeed, simulateSeed^0x9e3779b97f4a7c15))
	limiter := rate.NewLimiter(rate.Limit(simulateRate), 1)
	out := cmd.OutOrStdout()

	var recorded, rejected int
	start := time.Now()
	for i := 0; simulateEvents == 0 || i < simulateEvents; i++ {
		if err := limiter.Wait(ctx); err != nil {
			// 被中断
			break
		}
		in := core.Interaction{
			UserID:    users[rng.IntN(len(users))].ID,
			ItemID:    items[rng.IntN(len(items))].ID,
			Type:      types[rng.IntN(len(types))],
			Timestamp: time.Now(),
		}
		if in.Type == core.InteractionLike && rng.IntN(2) == 0 {
			in.Rating = float64(4 + rng.IntN(2))
		}
		if err := a.engine.RecordInteraction(ctx, in); err != nil {
			rejected++
			a.logger.Warn().Err(err).Str("user_id", in.UserID).Str("item_id", in.ItemID).Msg("record interaction")
			continue
		}
		recorded++

		if simulateWatch != "" && simulateEvery > 0 && recorded%simulateEvery == 0 {
			if err := printWatched(ctx, out, a, recorded); err != nil {
				return err
			}
		}
	}

	a.logger.Info().
		Int("recorded", recorded).
		Int("rejected", rejected).
		Dur("elapsed", time.Since(start)).
		Msg("simulation finished")

	if simulateWatch != "" {
		return printWatched(context.WithoutCancel(ctx), out, a, recorded)
	}
	return printStats(out, a.engine.Stats(ctx))
}

func printWatched(ctx context.Context, w io.Writer, a *app, recorded int) error {
	recs, err := a.engine.GetRecommendations(ctx, simulateWatch, a.cfg.Engine.DefaultLimit)
	if err != nil {
		return err
	}
	if !jsonOutput {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("after %d events", recorded)))
	}
	return printRecommendations(w, simulateWatch, recs)
}

// serveMetrics 启动 /metrics 端点，返回关闭函数。
func serveMetrics(addr string, logger zerolog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn().Err(err).Msg("metrics server shutdown")
		}
	}
}
