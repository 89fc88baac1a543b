package features

import (
	"runtime"
	"sort"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/logging"
)

type Option func(*Engine)

// WithWorkers bounds per-team fan-out. Values below one use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine computes rolling team form from canonical matches. Inputs are never
// modified.
type Engine struct {
	workers int
	logger  *logging.Logger
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		workers: runtime.GOMAXPROCS(0),
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NormalizeWindows drops non-positive and duplicate sizes and sorts the rest.
// An empty result falls back to DefaultWindows.
func NormalizeWindows(windows []int) []int {
	seen := make(map[int]struct{}, len(windows))
	out := make([]int, 0, len(windows))
	for _, w := range windows {
		if w <= 0 {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	if len(out) == 0 {
		return append([]int(nil), DefaultWindows...)
	}
	sort.Ints(out)
	return out
}

// ComputeTeamFeatures returns one row per team that appears in a dated match
// played strictly before cutoff's day, sorted by team. Matches on or after the
// cutoff day never influence the result.
func (e *Engine) ComputeTeamFeatures(matches []match.Canonical, cutoff time.Time, windows []int) []TeamRow {
	windows = NormalizeWindows(windows)
	day := match.Day(cutoff)

	byTeam := make(map[string][]match.Canonical)
	teams := make([]string, 0)
	addTeam := func(team string, m match.Canonical) {
		if team == "" {
			return
		}
		if _, ok := byTeam[team]; !ok {
			teams = append(teams, team)
			byTeam[team] = nil
		}
		if m.HasScore() {
			byTeam[team] = append(byTeam[team], m)
		}
	}
	for _, m := range matches {
		if !m.HasDate() || !m.Date.Before(day) {
			continue
		}
		addTeam(m.HomeTeam, m)
		if m.AwayTeam != m.HomeTeam {
			addTeam(m.AwayTeam, m)
		}
	}

	if len(teams) == 0 {
		e.logger.Warn("features: no historical matches before cutoff", "cutoff", day.Format(match.DateLayout))
		return []TeamRow{}
	}
	sort.Strings(teams)

	mapper := iter.Mapper[string, TeamRow]{MaxGoroutines: e.workers}
	return mapper.Map(teams, func(team *string) TeamRow {
		history := byTeam[*team]
		sortRecentFirst(history)
		return teamRow(*team, day, history, windows)
	})
}

func sortRecentFirst(items []match.Canonical) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].MatchKey < items[j].MatchKey
	})
}

// teamRow aggregates history, which must hold only scored matches ordered
// most recent first.
func teamRow(team string, cutoff time.Time, history []match.Canonical, windows []int) TeamRow {
	if len(history) == 0 {
		return defaultRow(team, cutoff, windows)
	}

	row := TeamRow{
		Team:         team,
		Cutoff:       cutoff,
		TotalMatches: len(history),
		Windows:      make([]WindowStats, 0, len(windows)),
	}
	for _, w := range windows {
		row.Windows = append(row.Windows, windowStats(team, history[:min(w, len(history))], w))
	}
	return row
}

func windowStats(team string, recent []match.Canonical, w int) WindowStats {
	ws := WindowStats{Window: w, Matches: len(recent)}

	var scored, conceded, points, wins int
	var xgFor, xgAgainst float64
	xgMatches := 0
	for _, m := range recent {
		home := m.HomeTeam == team
		gf, ga := *m.HomeScore, *m.AwayScore
		if !home {
			gf, ga = ga, gf
		}
		scored += gf
		conceded += ga
		switch {
		case gf > ga:
			points += 3
			wins++
		case gf == ga:
			points++
		}

		if m.HasXG() {
			f, a := *m.HomeXG, *m.AwayXG
			if !home {
				f, a = a, f
			}
			xgFor += f
			xgAgainst += a
			xgMatches++
		}
	}

	n := float64(len(recent))
	ws.GoalsScoredAvg = float64(scored) / n
	ws.GoalsConcededAvg = float64(conceded) / n
	ws.PointsAvg = float64(points) / n
	ws.WinRate = float64(wins) / n
	if xgMatches > 0 {
		forAvg, againstAvg := xgFor/float64(xgMatches), xgAgainst/float64(xgMatches)
		ws.XGForAvg = &forAvg
		ws.XGAgainstAvg = &againstAvg
	}
	return ws
}
