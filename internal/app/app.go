package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/football-data-pipeline/external/footballdata"
	"github.com/riskibarqy/football-data-pipeline/external/understat"
	"github.com/riskibarqy/football-data-pipeline/internal/config"
	"github.com/riskibarqy/football-data-pipeline/internal/domain/features"
	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
	"github.com/riskibarqy/football-data-pipeline/internal/domain/reconcile"
	"github.com/riskibarqy/football-data-pipeline/internal/domain/source"
	"github.com/riskibarqy/football-data-pipeline/internal/domain/teamname"
	repocache "github.com/riskibarqy/football-data-pipeline/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-data-pipeline/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-data-pipeline/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/cache"
	idgen "github.com/riskibarqy/football-data-pipeline/internal/platform/id"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/logging"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/resilience"
	"github.com/riskibarqy/football-data-pipeline/internal/usecase"
)

// App wires the pipeline services for one process.
type App struct {
	Ingestion *usecase.IngestionService
	Features  *usecase.FeatureService
	Catalog   *source.Catalog

	db     *sqlx.DB
	logger *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	names, err := newCanonicalizer(cfg, logger)
	if err != nil {
		return nil, err
	}

	policy := reconcile.DefaultPolicy()
	if cfg.MergeStatsSource != "" {
		policy = policy.WithStatsSource(cfg.MergeStatsSource)
	}
	reconciler := reconcile.NewReconciler(names, policy, logger.Named("reconcile"))

	repo, db, err := newMatchRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	collectors, err := newCollectors(cfg, logger)
	if err != nil {
		closeDB(db, logger)
		return nil, err
	}

	catalog := source.NewCatalog(source.DefaultCompetitions())
	engine := features.NewEngine(
		features.WithWorkers(cfg.FeatureWorkers),
		features.WithLogger(logger.Named("features")),
	)

	return &App{
		Ingestion: usecase.NewIngestionService(
			collectors,
			catalog,
			reconciler,
			repo,
			idgen.NewUUIDGenerator(),
			cfg.CollectWorkers,
			cfg.MergePrimarySource,
			logger.Named("ingestion"),
		),
		Features: usecase.NewFeatureService(repo, engine, cfg.FeatureWindows),
		Catalog:  catalog,
		db:       db,
		logger:   logger,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func newCanonicalizer(cfg config.Config, logger *logging.Logger) (*teamname.Canonicalizer, error) {
	table := teamname.DefaultAliasTable()
	if cfg.TeamAliasesFile != "" {
		extra, err := teamname.LoadAliasFile(cfg.TeamAliasesFile)
		if err != nil {
			return nil, fmt.Errorf("load team aliases: %w", err)
		}
		table = table.Extend(extra)
		logger.Info("team aliases extended", "file", cfg.TeamAliasesFile, "teams", len(extra))
	}
	return teamname.NewCanonicalizer(table), nil
}

func newMatchRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (match.Repository, *sqlx.DB, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver, "db_name", postgresDSN(cfg.DBURL).dbName(), "query_cache_ttl", cfg.QueryCacheTTL.String())
		var repo match.Repository = postgres.NewMatchRepository(db)
		if cfg.QueryCacheTTL > 0 {
			repo = repocache.NewMatchRepository(repo, cfg.QueryCacheTTL)
		}
		return repo, db, nil
	case config.StorageMemory, "":
		logger.Warn("using in-memory storage, merged matches are lost on exit")
		return memory.NewMatchRepository(nil), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func newCollectors(cfg config.Config, logger *logging.Logger) ([]source.Collector, error) {
	var store *cache.FileStore
	if dir := strings.TrimSpace(cfg.HTTPCacheDir); dir != "" {
		s, err := cache.NewFileStore(dir, cfg.HTTPCacheTTL)
		if err != nil {
			return nil, fmt.Errorf("init http cache: %w", err)
		}
		store = s
	}

	breaker := resilience.CircuitBreakerConfig{
		Enabled:          cfg.ProviderCircuit.Enabled,
		FailureThreshold: cfg.ProviderCircuit.FailureCount,
		OpenTimeout:      cfg.ProviderCircuit.OpenTimeout,
		HalfOpenMaxReq:   cfg.ProviderCircuit.HalfOpenMaxReq,
	}

	collectors := make([]source.Collector, 0, 2)
	if cfg.FootballData.Enabled {
		collectors = append(collectors, footballdata.NewClient(footballdata.ClientConfig{
			BaseURL:        cfg.FootballData.BaseURL,
			Token:          cfg.FootballData.Token,
			Timeout:        cfg.FootballData.Timeout,
			MaxRetries:     cfg.FootballData.MaxRetries,
			RateLimit:      cfg.FootballData.RateLimit,
			Cache:          store,
			Logger:         logger.Named(footballdata.Name),
			CircuitBreaker: breaker,
		}))
	}
	if cfg.Understat.Enabled {
		collectors = append(collectors, understat.NewClient(understat.ClientConfig{
			BaseURL:        cfg.Understat.BaseURL,
			Timeout:        cfg.Understat.Timeout,
			MaxRetries:     cfg.Understat.MaxRetries,
			RateLimit:      cfg.Understat.RateLimit,
			Cache:          store,
			Logger:         logger.Named(understat.Name),
			CircuitBreaker: breaker,
		}))
	}
	if len(collectors) == 0 {
		logger.Warn("no collectors enabled, collect runs will fail", "hint", "set FOOTBALL_DATA_ENABLED or UNDERSTAT_ENABLED")
	}
	return collectors, nil
}

func closeDB(db *sqlx.DB, logger *logging.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("close database", "error", err)
	}
}
