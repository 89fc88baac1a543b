package features

import (
	"fmt"
	"time"
)

// Neutral prior for teams without history.
const (
	DefaultGoalsScoredAvg   = 1.0
	DefaultGoalsConcededAvg = 1.0
	DefaultPointsAvg        = 1.0
	DefaultWinRate          = 0.33
)

// DefaultWindows are used when the caller configures none.
var DefaultWindows = []int{5, 10}

// WindowStats aggregates a team's most recent matches.
type WindowStats struct {
	Window           int      `json:"window"`
	Matches          int      `json:"matches"`
	GoalsScoredAvg   float64  `json:"goals_scored_avg"`
	GoalsConcededAvg float64  `json:"goals_conceded_avg"`
	PointsAvg        float64  `json:"points_avg"`
	WinRate          float64  `json:"win_rate"`
	XGForAvg         *float64 `json:"xg_for_avg,omitempty"`
	XGAgainstAvg     *float64 `json:"xg_against_avg,omitempty"`
}

// TeamRow is one team's feature set as of a cutoff day.
type TeamRow struct {
	Team         string        `json:"team"`
	Cutoff       time.Time     `json:"cutoff"`
	TotalMatches int           `json:"total_matches"`
	Windows      []WindowStats `json:"windows"`
}

// Window returns the stats for window size w.
func (r TeamRow) Window(w int) (WindowStats, bool) {
	for _, ws := range r.Windows {
		if ws.Window == w {
			return ws, true
		}
	}
	return WindowStats{}, false
}

// Columns renders the flat column layout consumed by training:
// team, total_matches and last{w}_* per window. xG columns are omitted when
// no match in the window carried xG.
func (r TeamRow) Columns() map[string]any {
	out := make(map[string]any, 2+len(r.Windows)*6)
	out["team"] = r.Team
	out["total_matches"] = r.TotalMatches
	r.putWindows(out, "")
	return out
}

func (r TeamRow) putWindows(out map[string]any, prefix string) {
	for _, ws := range r.Windows {
		p := prefix + windowPrefix(ws.Window)
		out[p+"goals_scored_avg"] = ws.GoalsScoredAvg
		out[p+"goals_conceded_avg"] = ws.GoalsConcededAvg
		out[p+"points_avg"] = ws.PointsAvg
		out[p+"win_rate"] = ws.WinRate
		if ws.XGForAvg != nil {
			out[p+"xg_for_avg"] = *ws.XGForAvg
		}
		if ws.XGAgainstAvg != nil {
			out[p+"xg_against_avg"] = *ws.XGAgainstAvg
		}
	}
}

// ColumnNames lists every column a row may carry for windows, in export order.
func ColumnNames(windows []int) []string {
	out := []string{"team", "total_matches"}
	return append(out, windowColumns(NormalizeWindows(windows), "")...)
}

func windowColumns(windows []int, prefix string) []string {
	out := make([]string, 0, len(windows)*6)
	for _, w := range windows {
		p := prefix + windowPrefix(w)
		out = append(out,
			p+"goals_scored_avg",
			p+"goals_conceded_avg",
			p+"points_avg",
			p+"win_rate",
			p+"xg_for_avg",
			p+"xg_against_avg",
		)
	}
	return out
}

func windowPrefix(w int) string {
	return fmt.Sprintf("last%d_", w)
}

func defaultRow(team string, cutoff time.Time, windows []int) TeamRow {
	row := TeamRow{Team: team, Cutoff: cutoff, Windows: make([]WindowStats, 0, len(windows))}
	for _, w := range windows {
		row.Windows = append(row.Windows, WindowStats{
			Window:           w,
			GoalsScoredAvg:   DefaultGoalsScoredAvg,
			GoalsConcededAvg: DefaultGoalsConcededAvg,
			PointsAvg:        DefaultPointsAvg,
			WinRate:          DefaultWinRate,
		})
	}
	return row
}
