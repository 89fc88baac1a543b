package features

import (
	"sort"
	"strconv"
	"time"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
)

// MatchRow pairs both teams' form as of a match day with its outcome.
type MatchRow struct {
	MatchKey string    `json:"match_key"`
	Date     time.Time `json:"date"`
	Home     TeamRow   `json:"home"`
	Away     TeamRow   `json:"away"`
	Result   string    `json:"result"`
}

// Columns flattens the row: home features keep the team-row names (with
// home_team instead of team), away features are prefixed with "away_".
func (r MatchRow) Columns() map[string]any {
	out := make(map[string]any, 8+len(r.Home.Windows)*12)
	out["match_key"] = r.MatchKey
	out["date"] = r.Date.Format(match.DateLayout)
	out["home_team"] = r.Home.Team
	out["away_team"] = r.Away.Team
	out["total_matches"] = r.Home.TotalMatches
	out["away_total_matches"] = r.Away.TotalMatches
	r.Home.putWindows(out, "")
	r.Away.putWindows(out, "away_")
	out["result"] = r.Result
	return out
}

// MatchRowColumnNames lists the dataset header for windows.
func MatchRowColumnNames(windows []int) []string {
	windows = NormalizeWindows(windows)
	out := []string{"match_key", "date", "home_team", "away_team", "total_matches"}
	out = append(out, windowColumns(windows, "")...)
	out = append(out, "away_total_matches")
	out = append(out, windowColumns(windows, "away_")...)
	return append(out, "result")
}

// Record renders the row in MatchRowColumnNames order. Absent values are
// empty strings.
func (r MatchRow) Record(windows []int) []string {
	cols := r.Columns()
	names := MatchRowColumnNames(windows)
	out := make([]string, len(names))
	for i, name := range names {
		switch v := cols[name].(type) {
		case string:
			out[i] = v
		case int:
			out[i] = strconv.Itoa(v)
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return out
}

// BuildTrainingRows emits one row per dated, scored match, with each team's
// features computed from matches played strictly before that day. Matches in
// which either team has no earlier scored match are skipped.
func (e *Engine) BuildTrainingRows(matches []match.Canonical, windows []int) []MatchRow {
	windows = NormalizeWindows(windows)
	maxWindow := windows[len(windows)-1]

	ordered := make([]match.Canonical, 0, len(matches))
	for _, m := range matches {
		if m.HasDate() && m.HasScore() {
			ordered = append(ordered, m)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].MatchKey < ordered[j].MatchKey
	})

	history := make(map[string][]match.Canonical)
	recent := func(team string) []match.Canonical {
		h := history[team]
		n := min(maxWindow, len(h))
		out := make([]match.Canonical, 0, n)
		for i := len(h) - 1; i >= len(h)-n; i-- {
			out = append(out, h[i])
		}
		return out
	}
	row := func(team string, day time.Time) TeamRow {
		r := teamRow(team, day, recent(team), windows)
		r.TotalMatches = len(history[team])
		return r
	}

	out := make([]MatchRow, 0, len(ordered))
	for start := 0; start < len(ordered); {
		end := start
		for end < len(ordered) && ordered[end].Date.Equal(ordered[start].Date) {
			end++
		}
		day := ordered[start].Date

		for _, m := range ordered[start:end] {
			if len(history[m.HomeTeam]) == 0 || len(history[m.AwayTeam]) == 0 {
				continue
			}
			out = append(out, MatchRow{
				MatchKey: m.MatchKey,
				Date:     day,
				Home:     row(m.HomeTeam, day),
				Away:     row(m.AwayTeam, day),
				Result:   m.Result,
			})
		}
		// Same-day matches go in reverse key order so that reading history
		// backwards follows sortRecentFirst.
		for i := end - 1; i >= start; i-- {
			m := ordered[i]
			history[m.HomeTeam] = append(history[m.HomeTeam], m)
			if m.AwayTeam != m.HomeTeam {
				history[m.AwayTeam] = append(history[m.AwayTeam], m)
			}
		}
		start = end
	}
	return out
}
