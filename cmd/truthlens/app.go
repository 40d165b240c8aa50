package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stake-plus/truthlens/src/acquire"
	"github.com/stake-plus/truthlens/src/ai/core"
	_ "github.com/stake-plus/truthlens/src/ai/providers"
	"github.com/stake-plus/truthlens/src/config"
	"github.com/stake-plus/truthlens/src/data"
	"github.com/stake-plus/truthlens/src/media"
	"github.com/stake-plus/truthlens/src/pipeline"
	"github.com/stake-plus/truthlens/src/webclient"
)

// app is the wired process: one oracle client and one pipeline shared by
// every request, plus the optional stores.
type app struct {
	cfg      config.Config
	pipeline *pipeline.Pipeline
	cache    *data.VerdictCache
	audit    *data.AuditLog
	closers  []func() error
}

// buildApp resolves configuration and constructs collaborators. withStores
// enables MySQL and Redis when configured.
func buildApp(ctx context.Context, withStores bool) (*app, error) {
	if err := config.LoadFile(configPath); err != nil {
		return nil, err
	}

	a := &app{}
	if dsn := config.MySQLDSN(); dsn != "" && withStores {
		db, err := data.ConnectMySQL(dsn, logger)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		if err := data.LoadSettings(db); err != nil {
			logger.Warn("failed to load settings, using env and file values", zap.Error(err))
		}
		audit, err := data.NewAuditLog(db, logger)
		if err != nil {
			return nil, fmt.Errorf("audit log: %w", err)
		}
		a.audit = audit
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.AI.Validate(); err != nil {
		return nil, err
	}
	a.cfg = cfg

	if cfg.Storage.RedisURL != "" && withStores {
		cache, err := data.NewVerdictCache(cfg.Storage.RedisURL, cfg.Storage.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		if err := cache.Ping(ctx); err != nil {
			logger.Warn("verdict cache unreachable, continuing without it", zap.Error(err))
			_ = cache.Close()
		} else {
			a.cache = cache
			a.closers = append(a.closers, cache.Close)
		}
	}

	oracle, err := core.NewClient(core.FactoryConfig{
		Provider:            cfg.AI.Provider,
		Model:               core.ResolveModelName(cfg.AI.Provider, cfg.AI.Model),
		Temperature:         cfg.AI.Temperature,
		MaxCompletionTokens: cfg.AI.MaxTokens,
		Attempts:            cfg.AI.Attempts,
		GeminiKey:           cfg.AI.GoogleKey,
		OpenAIKey:           cfg.AI.OpenAIKey,
		Extra: map[string]string{
			"base_url": cfg.AI.BaseURL,
			"response": cfg.AI.MockResponse,
		},
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("oracle: %w", err)
	}

	fetcher := acquire.HTTPFetcher{Client: webclient.NewWithUserAgent(cfg.Media.FetchTimeout, acquire.UserAgent)}
	if !cfg.Media.AllowPrivate {
		fetcher = acquire.HTTPFetcher{Client: webclient.NewGuarded(cfg.Media.FetchTimeout, acquire.UserAgent), Guard: true}
	}
	extractor := media.NewFFmpeg(cfg.Media.FFmpegPath, cfg.Media.FFprobePath, logger)
	if !extractor.Available() {
		logger.Warn("ffmpeg/ffprobe not found, video requests will fail",
			zap.String("ffmpeg", cfg.Media.FFmpegPath), zap.String("ffprobe", cfg.Media.FFprobePath))
	}
	acq := acquire.New(fetcher, extractor, acquire.Config{
		FrameCount:  cfg.Media.FrameCount,
		ScratchRoot: cfg.Media.TempDir,
	}, logger)

	p, err := pipeline.New(oracle, acq, pipeline.WithLogger(logger))
	if err != nil {
		a.close()
		return nil, err
	}
	a.pipeline = p

	logger.Info("truthlens ready",
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", core.ResolveModelName(cfg.AI.Provider, cfg.AI.Model)),
		zap.Bool("cache", a.cache != nil),
		zap.Bool("audit", a.audit != nil))
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
