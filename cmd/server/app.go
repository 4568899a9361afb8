package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/auth"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/cache"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/config"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/document"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/fetcher"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/learning"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/logger"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/pipeline"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/store"
)

const redisKeyPrefix = "summarizer:"

// app holds the components shared by the serve and learn commands
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	store      *store.Store
	redis      *redis.Client
	cache      *cache.Summaries
	controller *learning.Controller
	pipeline   *pipeline.Service
	jwt        *auth.JWTManager
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	st, err := store.Open(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a := &app{cfg: cfg, log: log, store: st}

	var backend cache.Backend
	opts := learning.Options{
		Lookback:         cfg.Learning.Lookback,
		MinDocuments:     cfg.Learning.MinDocuments,
		QualityIncrement: cfg.Learning.QualityIncrement,
	}
	if cfg.Redis.URL != "" {
		rdb, err := cache.Connect(cfg.Redis.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, continuing", "error", err)
		}
		a.redis = rdb
		backend = cache.NewRedisStore(rdb, redisKeyPrefix)
		opts.Locker = learning.NewRedisLocker(rdb, learning.DefaultLockKey, cfg.Learning.LockTTL)
		log.Info("redis enabled for summary cache and learning lock")
	} else {
		backend = cache.NewMemoryStore(cfg.Cache.TTL / 4)
	}
	a.cache = cache.NewSummaries(backend, cfg.Cache.TTL)

	policy := learning.NewRandomPerturbation(cfg.Learning.Perturbation, cfg.Learning.Seed)
	a.controller = learning.NewController(st.States(), st, policy, opts, log)

	proc := document.NewProcessor(log, cfg.Fetch.MaxBytes)
	fetch := fetcher.New(fetcher.Config{
		Timeout:   cfg.Fetch.Timeout,
		MaxBytes:  cfg.Fetch.MaxBytes,
		UserAgent: cfg.Fetch.UserAgent,
	})
	a.pipeline = pipeline.NewService(proc, fetch, st, a.controller, pipeline.Options{
		BatchDelay:   cfg.Batch.Delay,
		MaxBatchURLs: cfg.Batch.MaxURLs,
		Cache:        a.cache,
	}, log)

	if cfg.Auth.JWTSecret == "" {
		log.Warn("no jwt secret configured, admin tokens expire on restart")
	}
	a.jwt = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AdminSecret, cfg.Auth.TokenTTL)
	return a, nil
}

// Close releases the cache, redis and database handles
func (a *app) Close() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}
