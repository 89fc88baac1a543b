package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
)

func TestBuildTrainingRows(t *testing.T) {
	t.Parallel()

	matches := []match.Canonical{
		played("2024-01-20", "Arsenal", "Chelsea", 1, 1),
		played("2024-01-06", "Arsenal", "Burnley", 2, 0),
		played("2024-01-13", "Chelsea", "Burnley", 3, 0),
		played("2024-01-27", "Burnley", "Everton", 0, 1),
	}

	rows := newTestEngine().BuildTrainingRows(matches, []int{5})
	require.Len(t, rows, 1, "only Arsenal-Chelsea has history for both sides")

	row := rows[0]
	assert.Equal(t, "2024-01-20_Arsenal_vs_Chelsea", row.MatchKey)
	assert.Equal(t, match.ResultDraw, row.Result)
	assert.Equal(t, "Arsenal", row.Home.Team)
	assert.Equal(t, 1, row.Home.TotalMatches)
	assert.Equal(t, 1, row.Away.TotalMatches)

	hw, _ := row.Home.Window(5)
	aw, _ := row.Away.Window(5)
	assert.Equal(t, 2.0, hw.GoalsScoredAvg)
	assert.Equal(t, 3.0, aw.GoalsScoredAvg)
}

func TestBuildTrainingRows_MatchesPointInTimeFeatures(t *testing.T) {
	t.Parallel()

	matches := []match.Canonical{
		played("2024-01-06", "Arsenal", "Burnley", 2, 0),
		played("2024-01-06", "Chelsea", "Everton", 1, 2),
		played("2024-01-13", "Burnley", "Chelsea", 1, 1),
		played("2024-01-13", "Everton", "Arsenal", 0, 0),
		withXG(played("2024-01-20", "Arsenal", "Chelsea", 3, 2), 2.1, 1.4),
		played("2024-01-27", "Everton", "Burnley", 2, 2),
	}
	e := newTestEngine()
	windows := []int{1, 3}

	for _, row := range e.BuildTrainingRows(matches, windows) {
		teams := e.ComputeTeamFeatures(matches, row.Date, windows)
		assert.Equal(t, findRow(t, teams, row.Home.Team), row.Home, row.MatchKey)
		assert.Equal(t, findRow(t, teams, row.Away.Team), row.Away, row.MatchKey)
	}
}

func TestBuildTrainingRows_SameDayTieBreakMatchesEngine(t *testing.T) {
	t.Parallel()

	matches := []match.Canonical{
		played("2024-01-06", "Chelsea", "Arsenal", 1, 0),
		played("2024-01-06", "Arsenal", "Burnley", 2, 0),
		played("2024-01-13", "Arsenal", "Chelsea", 1, 1),
	}
	e := newTestEngine()
	windows := []int{1}

	rows := e.BuildTrainingRows(matches, windows)
	require.Len(t, rows, 1)
	row := rows[0]

	teams := e.ComputeTeamFeatures(matches, row.Date, windows)
	assert.Equal(t, findRow(t, teams, "Arsenal"), row.Home)

	w, ok := row.Home.Window(1)
	require.True(t, ok)
	assert.Equal(t, 2.0, w.GoalsScoredAvg, "lowest match key wins a same-day tie")
	assert.Equal(t, 2, row.Home.TotalMatches)
}

func TestMatchRow_Record(t *testing.T) {
	t.Parallel()

	matches := []match.Canonical{
		withXG(played("2024-01-06", "Arsenal", "Burnley", 2, 0), 1.5, 0.5),
		played("2024-01-06", "Chelsea", "Everton", 1, 2),
		played("2024-01-13", "Arsenal", "Chelsea", 1, 0),
	}
	rows := newTestEngine().BuildTrainingRows(matches, []int{5})
	require.Len(t, rows, 1)

	header := MatchRowColumnNames([]int{5})
	record := rows[0].Record([]int{5})
	require.Len(t, record, len(header))

	got := map[string]string{}
	for i, name := range header {
		got[name] = record[i]
	}
	assert.Equal(t, "2024-01-13", got["date"])
	assert.Equal(t, "Arsenal", got["home_team"])
	assert.Equal(t, "Chelsea", got["away_team"])
	assert.Equal(t, "1", got["total_matches"])
	assert.Equal(t, "2", got["last5_goals_scored_avg"])
	assert.Equal(t, "1.5", got["last5_xg_for_avg"])
	assert.Equal(t, "", got["away_last5_xg_for_avg"])
	assert.Equal(t, "0", got["away_last5_points_avg"])
	assert.Equal(t, "H", got["result"])
}
