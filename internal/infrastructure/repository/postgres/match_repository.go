package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
	qb "github.com/riskibarqy/football-data-pipeline/internal/platform/querybuilder"
)

const matchesTable = "matches"

var _ match.Repository = (*MatchRepository)(nil)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) UpsertMatches(ctx context.Context, items []match.Canonical) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]matchTableModel, 0, len(items))
	seen := make(map[string]int, len(items))
	for _, item := range items {
		row, err := toMatchModel(item)
		if err != nil {
			return err
		}
		// ON CONFLICT cannot touch the same key twice in one statement.
		if pos, ok := seen[row.MatchKey]; ok {
			rows[pos] = row
			continue
		}
		seen[row.MatchKey] = len(rows)
		rows = append(rows, row)
	}

	suffix, err := upsertSuffix()
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, batch := range chunk(rows, maxRowsPerInsert) {
		query, args, err := qb.InsertModels(matchesTable, batch, suffix)
		if err != nil {
			return fmt.Errorf("build upsert matches query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert matches (rows=%d): %w", len(batch), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx upsert matches: %w", err)
	}
	return nil
}

func (r *MatchRepository) ListBefore(ctx context.Context, cutoff time.Time) ([]match.Canonical, error) {
	return r.selectMatches(ctx,
		qb.IsNotNull("match_date"),
		qb.Lt("match_date", match.Day(cutoff)),
	)
}

func (r *MatchRepository) ListBetween(ctx context.Context, from, to time.Time) ([]match.Canonical, error) {
	return r.selectMatches(ctx,
		qb.IsNotNull("match_date"),
		qb.Gte("match_date", match.Day(from)),
		qb.Lt("match_date", match.Day(to)),
	)
}

func (r *MatchRepository) selectMatches(ctx context.Context, conditions ...qb.Condition) ([]match.Canonical, error) {
	cols, err := qb.Columns(matchTableModel{})
	if err != nil {
		return nil, fmt.Errorf("resolve match columns: %w", err)
	}
	query, args, err := qb.Select(cols...).From(matchesTable).
		Where(conditions...).
		OrderBy("match_date", "match_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Canonical, 0, len(rows))
	for _, row := range rows {
		item, err := fromMatchModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func upsertSuffix() (string, error) {
	cols, err := qb.Columns(matchTableModel{})
	if err != nil {
		return "", fmt.Errorf("resolve match columns: %w", err)
	}
	update := make([]string, 0, len(cols))
	for _, col := range cols {
		if col == "match_key" {
			continue
		}
		update = append(update, col)
	}
	update = append(update, "updated_at")
	return qb.OnConflictUpdate([]string{"match_key"}, update), nil
}

func toMatchModel(item match.Canonical) (matchTableModel, error) {
	if item.MatchKey == "" {
		return matchTableModel{}, fmt.Errorf("match key is required")
	}

	var extra []byte
	if len(item.Extra) > 0 {
		raw, err := sonic.Marshal(item.Extra)
		if err != nil {
			return matchTableModel{}, fmt.Errorf("encode extra fields match_key=%s: %w", item.MatchKey, err)
		}
		extra = raw
	}

	return matchTableModel{
		MatchKey:       item.MatchKey,
		MatchID:        nullString(item.MatchID),
		MatchDate:      nullTime(item.Date),
		HomeTeam:       item.HomeTeam,
		AwayTeam:       item.AwayTeam,
		Competition:    nullString(item.Competition),
		Season:         nullString(item.Season),
		HomeScore:      nullInt(item.HomeScore),
		AwayScore:      nullInt(item.AwayScore),
		HomeXG:         nullFloat(item.HomeXG),
		AwayXG:         nullFloat(item.AwayXG),
		HomeOdds:       nullFloat(item.HomeOdds),
		DrawOdds:       nullFloat(item.DrawOdds),
		AwayOdds:       nullFloat(item.AwayOdds),
		Result:         nullString(item.Result),
		TotalGoals:     nullInt(item.TotalGoals),
		GoalDifference: nullInt(item.GoalDifference),
		TotalXG:        nullFloat(item.TotalXG),
		XGDifference:   nullFloat(item.XGDifference),
		Sources:        append([]string{}, item.Sources...),
		Extra:          extra,
	}, nil
}

func fromMatchModel(row matchTableModel) (match.Canonical, error) {
	item := match.Canonical{
		MatchKey:       row.MatchKey,
		MatchID:        row.MatchID.String,
		HomeTeam:       row.HomeTeam,
		AwayTeam:       row.AwayTeam,
		Competition:    row.Competition.String,
		Season:         row.Season.String,
		HomeScore:      intPtr(row.HomeScore),
		AwayScore:      intPtr(row.AwayScore),
		HomeXG:         floatPtr(row.HomeXG),
		AwayXG:         floatPtr(row.AwayXG),
		HomeOdds:       floatPtr(row.HomeOdds),
		DrawOdds:       floatPtr(row.DrawOdds),
		AwayOdds:       floatPtr(row.AwayOdds),
		Result:         row.Result.String,
		TotalGoals:     intPtr(row.TotalGoals),
		GoalDifference: intPtr(row.GoalDifference),
		TotalXG:        floatPtr(row.TotalXG),
		XGDifference:   floatPtr(row.XGDifference),
		Sources:        []string(row.Sources),
	}
	if row.MatchDate.Valid {
		item.Date = match.Day(row.MatchDate.Time)
	}
	if len(row.Extra) > 0 {
		if err := sonic.Unmarshal(row.Extra, &item.Extra); err != nil {
			return match.Canonical{}, fmt.Errorf("decode extra fields match_key=%s: %w", row.MatchKey, err)
		}
	}
	return item, nil
}
