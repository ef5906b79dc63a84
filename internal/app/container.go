package app

import (
	"context"
	"fmt"
	"time"

	"resume-matcher/internal/config"
	"resume-matcher/internal/database"
	"resume-matcher/internal/database/migration"
	dbpostgres "resume-matcher/internal/database/postgres"
	"resume-matcher/internal/domain/matching"
	"resume-matcher/internal/infrastructure/cache"
	"resume-matcher/internal/infrastructure/persistence/memory"
	"resume-matcher/internal/infrastructure/source"
	"resume-matcher/internal/logger"
	"resume-matcher/internal/observability"
	"resume-matcher/internal/pipeline"
	"resume-matcher/internal/repository"
	"resume-matcher/internal/usecase"
	"resume-matcher/migrations"

	"go.uber.org/zap"
)

// Container owns the shared backends of both binaries.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Redis   *cache.Redis
	Metrics *observability.Metrics

	Store      repository.MatchStore
	Jobs       repository.JobSource
	Candidates repository.CandidateSource

	Table  matching.Table
	Engine *matching.Engine
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)

	engine, err := cfg.Matching.Engine()
	if err != nil {
		return nil, fmt.Errorf("matching config: %w", err)
	}

	c := &Container{
		Config:  cfg,
		Logger:  log,
		Metrics: observability.NewMetrics(),
		Table:   cfg.Matching.Table(),
		Engine:  engine,
	}

	if cfg.NeedsPostgres() {
		connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		dbCfg := cfg.Database
		if dbCfg.PoolMaxConns == 0 {
			dbCfg.PoolMaxConns = dbpostgres.PoolSizeFor(cfg.Ingestion.Workers)
		}
		db, err := dbpostgres.Connect(connCtx, dbCfg)
		cancel()
		if err != nil {
			return nil, err
		}
		c.DB = db

		runner := migration.Runner{Dir: cfg.App.MigrationsDir}
		if cfg.App.MigrationsDir == "" {
			runner.FS = migrations.FS
		}
		if err := runner.Run(ctx, db.SQLDB()); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied")
	}

	switch cfg.App.StoreBackend {
	case config.BackendMemory:
		c.Store = memory.NewMatchStore(cfg.Matching.TopKSkills)
	default:
		c.Store = repository.NewPostgresMatchRepository(c.DB, cfg.Matching.TopKSkills)
	}

	switch cfg.Ingestion.SourceBackend {
	case config.BackendFile:
		c.Jobs = source.NewJobFile(cfg.Ingestion.JobsFile)
		c.Candidates = source.NewCandidateFile(cfg.Ingestion.CandidatesFile)
	default:
		c.Jobs = repository.NewPostgresJobSource(c.DB)
		c.Candidates = repository.NewPostgresCandidateSource(c.DB)
	}

	c.Redis = cache.NewRedis(cfg.Redis, log)

	log.Info("container ready",
		zap.String("store_backend", cfg.App.StoreBackend),
		zap.String("source_backend", cfg.Ingestion.SourceBackend),
		zap.Bool("redis", c.Redis.Available()),
		zap.String("scoring_version", engine.Version()),
	)
	return c, nil
}

// Pipeline builds a ranking pipeline over the container backends. notifier may be nil.
func (c *Container) Pipeline(notifier pipeline.Notifier) *pipeline.RankingPipeline {
	deps := pipeline.Dependencies{
		Jobs:        c.Jobs,
		Candidates:  c.Candidates,
		Store:       c.Store,
		Locker:      c.Redis,
		Invalidator: usecase.NewMatchCacheInvalidator(c.Redis),
		Metrics:     c.Metrics,
		Logger:      c.Logger,
	}
	// Without Redis a resumable checkpoint only lives as long as the process.
	if c.Redis.Available() {
		deps.Checkpoint = c.Redis
	}
	if notifier != nil {
		deps.Notifier = notifier
	}
	return pipeline.NewRankingPipeline(deps, c.Table, c.Engine)
}

func (c *Container) DefaultParams() pipeline.Params {
	return pipeline.Params{
		Workers:        c.Config.Ingestion.Workers,
		ExtractWorkers: c.Config.Ingestion.ExtractWorkers,
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
