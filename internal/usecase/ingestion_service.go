package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
	"github.com/riskibarqy/football-data-pipeline/internal/domain/reconcile"
	"github.com/riskibarqy/football-data-pipeline/internal/domain/source"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/id"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/logging"
)

const (
	collectStatusSuccess = "success"
	collectStatusFailed  = "failed"
	collectStatusSkipped = "skipped"
)

type CollectInput struct {
	Competition string
	Season      string
	// Primary overrides the configured primary source for this run.
	Primary string
}

type CollectResult struct {
	RunID       string                `json:"run_id"`
	Competition string                `json:"competition"`
	Season      string                `json:"season"`
	Primary     string                `json:"primary,omitempty"`
	Sources     []CollectSourceResult `json:"sources"`
	Merged      int                   `json:"merged"`
	Report      reconcile.MergeReport `json:"report"`
}

type CollectSourceResult struct {
	Source        string `json:"source"`
	CompetitionID string `json:"competition_id,omitempty"`
	Status        string `json:"status"`
	Records       int    `json:"records"`
	DurationMs    int64  `json:"duration_ms"`
	Message       string `json:"message,omitempty"`
}

type IngestionService struct {
	collectors     []source.Collector
	catalog        *source.Catalog
	reconciler     *reconcile.Reconciler
	repo           match.Repository
	ids            id.Generator
	workers        int
	defaultPrimary string
	logger         *logging.Logger
}

func NewIngestionService(
	collectors []source.Collector,
	catalog *source.Catalog,
	reconciler *reconcile.Reconciler,
	repo match.Repository,
	ids id.Generator,
	workers int,
	defaultPrimary string,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if catalog == nil {
		catalog = source.NewCatalog(source.DefaultCompetitions())
	}
	if workers <= 0 {
		workers = len(collectors)
	}
	return &IngestionService{
		collectors:     collectors,
		catalog:        catalog,
		reconciler:     reconciler,
		repo:           repo,
		ids:            ids,
		workers:        max(workers, 1),
		defaultPrimary: strings.TrimSpace(defaultPrimary),
		logger:         logger,
	}
}

// Collect pulls one competition season from every collector that knows the
// competition, reconciles the batches and upserts the merged records. A
// failing collector is recorded in the result and the run continues with the
// others.
func (s *IngestionService) Collect(ctx context.Context, input CollectInput) (_ CollectResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Collect",
		attribute.String("competition", input.Competition),
		attribute.String("season", input.Season),
	)
	defer func() { endUsecaseSpan(span, err) }()

	input.Competition = strings.TrimSpace(input.Competition)
	input.Season = strings.TrimSpace(input.Season)
	if input.Competition == "" {
		return CollectResult{}, fmt.Errorf("%w: competition is required", ErrInvalidInput)
	}
	if input.Season == "" {
		return CollectResult{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	season := source.SeasonStartYear(input.Season)
	if len(s.collectors) == 0 {
		return CollectResult{}, fmt.Errorf("%w: no collectors enabled", ErrDependencyUnavailable)
	}

	competition, ok := s.catalog.Lookup(input.Competition)
	if !ok {
		return CollectResult{}, fmt.Errorf("%w: competition=%s", ErrNotFound, input.Competition)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return CollectResult{}, fmt.Errorf("generate run id: %w", err)
	}
	primary := strings.TrimSpace(input.Primary)
	if primary == "" {
		primary = s.defaultPrimary
	}

	result := CollectResult{
		RunID:       runID,
		Competition: competition.Name,
		Season:      input.Season,
		Primary:     primary,
		Sources:     make([]CollectSourceResult, len(s.collectors)),
	}
	batches := make([]reconcile.SourceBatch, len(s.collectors))

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return CollectResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, collector := range s.collectors {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			result.Sources[i], batches[i] = s.collectOne(ctx, collector, competition, season)
		}); err != nil {
			workers.Done()
			return CollectResult{}, fmt.Errorf("submit collector to worker pool: %w", err)
		}
	}
	workers.Wait()

	succeeded, failed := 0, 0
	for _, row := range result.Sources {
		switch row.Status {
		case collectStatusSuccess:
			succeeded++
		case collectStatusFailed:
			failed++
		}
	}
	if succeeded == 0 {
		if failed > 0 {
			return result, fmt.Errorf("%w: every collector failed for competition=%s season=%s", ErrDependencyUnavailable, competition.Name, input.Season)
		}
		return result, fmt.Errorf("%w: no collector covers competition=%s", ErrNotFound, competition.Name)
	}

	merged, report := s.reconciler.MergeWithReport(batches, primary)
	result.Merged = len(merged)
	result.Report = report

	if len(merged) > 0 {
		if err := s.repo.UpsertMatches(ctx, merged); err != nil {
			return result, fmt.Errorf("upsert merged matches: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "collection run finished",
		"run_id", runID,
		"competition", competition.Name,
		"season", input.Season,
		"sources_ok", succeeded,
		"sources_failed", failed,
		"merged", len(merged),
	)
	return result, nil
}

func (s *IngestionService) collectOne(
	ctx context.Context,
	collector source.Collector,
	competition source.Competition,
	season string,
) (CollectSourceResult, reconcile.SourceBatch) {
	name := collector.Name()
	row := CollectSourceResult{Source: name}
	batch := reconcile.SourceBatch{Source: name}

	providerID, ok := competition.ProviderID(name)
	if !ok {
		row.Status = collectStatusSkipped
		row.Message = "competition not covered by source"
		return row, batch
	}
	row.CompetitionID = providerID

	var (
		records []match.RawRecord
		err     error
	)
	start := time.Now()
	pyroscope.TagWrapper(ctx, pyroscope.Labels("source", name), func(ctx context.Context) {
		records, err = collector.ListMatches(ctx, providerID, season)
	})
	row.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		s.logger.WarnContext(ctx, "collector failed, continuing without it",
			"source", name,
			"competition_id", providerID,
			"season", season,
			"error", err,
		)
		row.Status = collectStatusFailed
		row.Message = err.Error()
		return row, batch
	}

	row.Status = collectStatusSuccess
	row.Records = len(records)
	batch.Records = records
	return row, batch
}

// MergeBatches reconciles raw lists the caller already holds. Nothing is
// persisted.
func (s *IngestionService) MergeBatches(ctx context.Context, batches []reconcile.SourceBatch, primary string) (_ []match.Canonical, _ reconcile.MergeReport, err error) {
	_, span := startUsecaseSpan(ctx, "usecase.IngestionService.MergeBatches",
		attribute.Int("batches", len(batches)),
	)
	defer func() { endUsecaseSpan(span, err) }()

	if len(batches) == 0 {
		return nil, reconcile.MergeReport{}, fmt.Errorf("%w: at least one source batch is required", ErrInvalidInput)
	}
	for _, batch := range batches {
		if strings.TrimSpace(batch.Source) == "" {
			return nil, reconcile.MergeReport{}, fmt.Errorf("%w: source name is required for every batch", ErrInvalidInput)
		}
	}
	primary = strings.TrimSpace(primary)
	if primary == "" {
		primary = s.defaultPrimary
	}

	merged, report := s.reconciler.MergeWithReport(batches, primary)
	return merged, report, nil
}

// Store upserts already merged records.
func (s *IngestionService) Store(ctx context.Context, items []match.Canonical) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Store",
		attribute.Int("matches", len(items)),
	)
	defer func() { endUsecaseSpan(span, err) }()

	if len(items) == 0 {
		return nil
	}
	for _, item := range items {
		if strings.TrimSpace(item.MatchKey) == "" {
			return fmt.Errorf("%w: match key is required", ErrInvalidInput)
		}
	}
	if err := s.repo.UpsertMatches(ctx, items); err != nil {
		return fmt.Errorf("upsert matches: %w", err)
	}
	return nil
}
