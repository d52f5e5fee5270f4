package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/rtrec/config"
	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/dataset"
	"github.com/rushteam/rtrec/engine"
	"github.com/rushteam/rtrec/pkg/logging"
	"github.com/rushteam/rtrec/store"
)

// app 汇总一个命令需要的全部依赖。
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	engine *engine.Engine
	kv     core.KeyValueStore
	mirror *store.Mirror
}

// newApp 加载配置和数据，打开外部存储并构造引擎。
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataPath != "" {
		cfg.Data.Path = dataPath
	}
	if logLevel != "" {
		if !logging.ValidLevel(logLevel) {
			return nil, fmt.Errorf("unknown log level %q", logLevel)
		}
		cfg.Log.Level = logLevel
	}
	logger := logging.New(cfg.Log, os.Stderr).With().Str("service", "rtrec").Logger()

	ds, err := loadDataset(cfg.Data)
	if err != nil {
		return nil, err
	}

	kv, err := cfg.OpenStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	opts, mirror, err := cfg.EngineOptions(kv, logger)
	if err != nil {
		closeStore(kv, logger)
		return nil, err
	}

	interactions := ds.Interactions
	if mirror != nil && cfg.Store.Replay {
		replayed, err := mirror.Load(ctx)
		if err != nil {
			// 只用数据集启动
			logger.Warn().Err(err).Str("key", mirror.Key()).Msg("mirror replay failed")
		} else {
			logger.Info().Int("replayed", len(replayed)).Str("key", mirror.Key()).Msg("mirror replayed")
			interactions = append(append([]core.Interaction(nil), interactions...), replayed...)
		}
	}

	e, err := engine.New(ds.Users, ds.Items, interactions, opts...)
	if err != nil {
		closeStore(kv, logger)
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, engine: e, kv: kv, mirror: mirror}, nil
}

func loadDataset(dc config.DataConfig) (*dataset.Dataset, error) {
	if dc.Path == "" {
		return dataset.Generate(dataset.GenerateOptions{Seed: dc.Seed}), nil
	}
	ds, err := dataset.LoadFile(dc.Path, time.Now())
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, nil
}

func closeStore(kv core.KeyValueStore, logger zerolog.Logger) {
	if kv == nil {
		return
	}
	if err := kv.Close(); err != nil {
		logger.Warn().Err(err).Str("store", kv.Name()).Msg("close store")
	}
}

func (a *app) Close() {
	closeStore(a.kv, a.logger)
}
