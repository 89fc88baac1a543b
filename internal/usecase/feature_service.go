package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/features"
	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
)

type FeatureService struct {
	repo    match.Repository
	engine  *features.Engine
	windows []int
}

func NewFeatureService(repo match.Repository, engine *features.Engine, windows []int) *FeatureService {
	if engine == nil {
		engine = features.NewEngine()
	}
	return &FeatureService{
		repo:    repo,
		engine:  engine,
		windows: features.NormalizeWindows(windows),
	}
}

// TeamFeatures computes one row per team from matches stored before cutoff's
// day. Empty windows use the configured defaults.
func (s *FeatureService) TeamFeatures(ctx context.Context, cutoff time.Time, windows []int) (_ []features.TeamRow, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureService.TeamFeatures",
		attribute.String("cutoff", cutoff.Format(match.DateLayout)),
	)
	defer func() { endUsecaseSpan(span, err) }()

	if cutoff.IsZero() {
		return nil, fmt.Errorf("%w: cutoff is required", ErrInvalidInput)
	}
	windows, err = s.resolveWindows(windows)
	if err != nil {
		return nil, err
	}

	matches, err := s.repo.ListBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list matches before %s: %w", cutoff.Format(match.DateLayout), err)
	}
	return s.engine.ComputeTeamFeatures(matches, cutoff, windows), nil
}

// TrainingRows returns labelled rows for matches played in [from, to). Team
// history before from is still used to compute the features.
func (s *FeatureService) TrainingRows(ctx context.Context, from, to time.Time, windows []int) (_ []features.MatchRow, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureService.TrainingRows",
		attribute.String("from", from.Format(match.DateLayout)),
		attribute.String("to", to.Format(match.DateLayout)),
	)
	defer func() { endUsecaseSpan(span, err) }()

	if to.IsZero() {
		return nil, fmt.Errorf("%w: end date is required", ErrInvalidInput)
	}
	from, to = match.Day(from), match.Day(to)
	if !from.IsZero() && !from.Before(to) {
		return nil, fmt.Errorf("%w: start date must be before end date", ErrInvalidInput)
	}
	windows, err = s.resolveWindows(windows)
	if err != nil {
		return nil, err
	}

	matches, err := s.repo.ListBefore(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("list matches before %s: %w", to.Format(match.DateLayout), err)
	}

	rows := s.engine.BuildTrainingRows(matches, windows)
	out := rows[:0]
	for _, row := range rows {
		if row.Date.Before(from) || !row.Date.Before(to) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// Windows reports the sizes used when callers pass none.
func (s *FeatureService) Windows() []int {
	return append([]int(nil), s.windows...)
}

func (s *FeatureService) resolveWindows(windows []int) ([]int, error) {
	if len(windows) == 0 {
		return s.Windows(), nil
	}
	for _, w := range windows {
		if w <= 0 {
			return nil, fmt.Errorf("%w: window sizes must be positive, got %d", ErrInvalidInput, w)
		}
	}
	return features.NormalizeWindows(windows), nil
}
