package postgres

import (
	"database/sql"

	"github.com/lib/pq"
)

type matchTableModel struct {
	MatchKey       string          `db:"match_key"`
	MatchID        sql.NullString  `db:"match_id"`
	MatchDate      sql.NullTime    `db:"match_date"`
	HomeTeam       string          `db:"home_team"`
	AwayTeam       string          `db:"away_team"`
	Competition    sql.NullString  `db:"competition"`
	Season         sql.NullString  `db:"season"`
	HomeScore      sql.NullInt64   `db:"home_score"`
	AwayScore      sql.NullInt64   `db:"away_score"`
	HomeXG         sql.NullFloat64 `db:"home_xg"`
	AwayXG         sql.NullFloat64 `db:"away_xg"`
	HomeOdds       sql.NullFloat64 `db:"home_odds"`
	DrawOdds       sql.NullFloat64 `db:"draw_odds"`
	AwayOdds       sql.NullFloat64 `db:"away_odds"`
	Result         sql.NullString  `db:"result"`
	TotalGoals     sql.NullInt64   `db:"total_goals"`
	GoalDifference sql.NullInt64   `db:"goal_difference"`
	TotalXG        sql.NullFloat64 `db:"total_xg"`
	XGDifference   sql.NullFloat64 `db:"xg_difference"`
	Sources        pq.StringArray  `db:"sources"`
	Extra          []byte          `db:"extra"`
}
