package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/engine"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rtrec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultConfig(), cfg.Engine)
	assert.Equal(t, BackendNone, cfg.Store.Backend)
	assert.Equal(t, 5*time.Second, cfg.Store.DialTimeout)
	assert.Equal(t, uint32(5), cfg.Store.Breaker.FailureThreshold)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.Filter.Blacklist)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
engine:
  log_cap: 200
  trending_window: 72h
  blend:
    warm:
      collaborative: 0.5
strategies:
  trending:
    type: trending
    params:
      window: 48h
filter:
  blacklist: [m1, m2]
  expr: item.rating < 2.0
store:
  backend: memory
  breaker:
    timeout: 10s
log:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Engine.LogCap)
	assert.Equal(t, 72*time.Hour, cfg.Engine.TrendingWindow)
	assert.Equal(t, 0.5, cfg.Engine.Blend.Warm.Collaborative)
	assert.Equal(t, 0.3, cfg.Engine.Blend.Warm.Content, "untouched keys keep defaults")
	assert.Equal(t, DefaultConfig().Engine.PopularWindow, cfg.Engine.PopularWindow)
	assert.Equal(t, "trending", cfg.Strategies.Trending.Type)
	assert.Equal(t, "48h", cfg.Strategies.Trending.Params["window"])
	assert.Equal(t, []string{"m1", "m2"}, cfg.Filter.Blacklist)
	assert.Equal(t, "item.rating < 2.0", cfg.Filter.Expr)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 10*time.Second, cfg.Store.Breaker.Timeout)
	assert.Equal(t, uint32(1), cfg.Store.Breaker.MaxRequests)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "engine:\n  log_cap: 200\n")
	t.Setenv("RTREC_ENGINE_LOG_CAP", "500")
	t.Setenv("RTREC_ENGINE_BLEND_COLD_CONTENT", "0.7")
	t.Setenv("RTREC_ENGINE_POPULAR_WINDOW", "48h")
	t.Setenv("RTREC_FILTER_BLACKLIST", "a, b,,c")
	t.Setenv("RTREC_METRICS_ENABLED", "true")
	t.Setenv("RTREC_NOT_A_KEY", "ignored")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Engine.LogCap)
	assert.Equal(t, 0.7, cfg.Engine.Blend.Cold.Content)
	assert.Equal(t, 48*time.Hour, cfg.Engine.PopularWindow)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Filter.Blacklist)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "engine:\n  log_cap: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_cap")
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "etcd" }, "unknown backend"},
		{"redis without addr", func(c *Config) { c.Store.Backend = BackendRedis; c.Store.Addr = "" }, "addr is required"},
		{"store filters without store", func(c *Config) { c.Filter.BlacklistKey = "bl" }, "need a store backend"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "unknown level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "unknown format"},
		{"metrics addr", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Addr = "" }, "metrics"},
		{"engine", func(c *Config) { c.Engine.NeighborCount = 0 }, "neighbor_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOpenStore(t *testing.T) {
	cfg := DefaultConfig()
	kv, err := cfg.OpenStore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, kv)

	cfg.Store.Backend = BackendMemory
	kv, err = cfg.OpenStore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, kv)
	assert.Equal(t, "memory", kv.Name())
}

func TestBuildFilters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filter.Blacklist = []string{"m1"}
	cfg.Filter.BlacklistKey = "bl"
	cfg.Filter.UserBlockPrefix = "blk"
	cfg.Filter.Expr = "item.rating < 2.0"

	filters, err := cfg.BuildFilters(nil)
	require.NoError(t, err)
	names := func() []string {
		out := make([]string, 0, len(filters))
		for _, f := range filters {
			out = append(out, f.Name())
		}
		return out
	}
	assert.Equal(t, []string{"filter.blacklist", "filter.expr"}, names())

	cfg.Store.Backend = BackendMemory
	kv, err := cfg.OpenStore(context.Background())
	require.NoError(t, err)
	filters, err = cfg.BuildFilters(kv)
	require.NoError(t, err)
	assert.Equal(t, []string{"filter.blacklist", "filter.user_block", "filter.expr"}, names())

	cfg.Filter.Expr = "item.rating <"
	_, err = cfg.BuildFilters(kv)
	assert.ErrorContains(t, err, "filter.expr")
}

func TestBuildStrategies_UnknownType(t *testing.T) {
	cfg := DefaultConfig()
	s, err := cfg.BuildStrategies()
	require.NoError(t, err)
	assert.Nil(t, s.Collaborative)
	assert.Nil(t, s.Content)
	assert.Nil(t, s.Trending)

	cfg.Strategies.Content.Type = "does-not-exist"
	_, err = cfg.BuildStrategies()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategies.content")
	assert.Contains(t, err.Error(), "unsupported source type")
}

func TestEngineOptions_MirrorsInteractions(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Store.Backend = BackendMemory
	cfg.Store.Capacity = 10
	cfg.Filter.Blacklist = []string{"i2"}

	kv, err := cfg.OpenStore(ctx)
	require.NoError(t, err)
	opts, mirror, err := cfg.EngineOptions(kv, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, mirror)

	items := []core.Item{{ID: "i1", Rating: 4}, {ID: "i2", Rating: 5}, {ID: "i3", Rating: 3}}
	e, err := engine.New([]core.User{{ID: "u1"}}, items, nil, opts...)
	require.NoError(t, err)

	in := core.Interaction{UserID: "u1", ItemID: "i1", Type: core.InteractionLike, Timestamp: time.Now()}
	require.NoError(t, e.RecordInteraction(ctx, in))

	replayed, err := mirror.Load(ctx)
	require.NoError(t, err)
	require.Len(t, replayed, 1)
	assert.Equal(t, "i1", replayed[0].ItemID)

	recs, err := e.GetRecommendations(ctx, "u1", 10)
	require.NoError(t, err)
	for _, r := range recs {
		assert.NotEqual(t, "i2", r.ItemID, "blacklisted")
		assert.NotEqual(t, "i1", r.ItemID, "interacted")
	}
	assert.NotEmpty(t, recs)

	opts, mirror, err = DefaultConfig().EngineOptions(nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, mirror)
	assert.Len(t, opts, 4)
}
