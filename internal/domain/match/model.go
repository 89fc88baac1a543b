package match

import (
	"sort"
	"time"
)

// Field names shared by every provider record.
const (
	FieldMatchKey       = "match_key"
	FieldMatchID        = "match_id"
	FieldDate           = "date"
	FieldHomeTeam       = "home_team"
	FieldAwayTeam       = "away_team"
	FieldHomeScore      = "home_score"
	FieldAwayScore      = "away_score"
	FieldHomeXG         = "home_xg"
	FieldAwayXG         = "away_xg"
	FieldHomeOdds       = "home_odds"
	FieldDrawOdds       = "draw_odds"
	FieldAwayOdds       = "away_odds"
	FieldCompetition    = "competition"
	FieldSeason         = "season"
	FieldResult         = "result"
	FieldTotalGoals     = "total_goals"
	FieldGoalDifference = "goal_difference"
	FieldTotalXG        = "total_xg"
	FieldXGDifference   = "xg_difference"
	FieldSources        = "sources"
)

const (
	ResultHome = "H"
	ResultDraw = "D"
	ResultAway = "A"
)

// RawRecord is one provider's view of a match. Values are whatever the
// provider sent: numbers may arrive as strings and any field may be absent.
type RawRecord map[string]any

// TaggedRecord is a raw record annotated with the source it came from.
type TaggedRecord struct {
	Source string
	Record RawRecord
}

// Canonical is the reconciled record for one real-world match. Optional
// values are nil when no source supplied them.
type Canonical struct {
	MatchKey    string
	MatchID     string
	Date        time.Time
	HomeTeam    string
	AwayTeam    string
	Competition string
	Season      string

	HomeScore *int
	AwayScore *int
	HomeXG    *float64
	AwayXG    *float64
	HomeOdds  *float64
	DrawOdds  *float64
	AwayOdds  *float64

	Result         string
	TotalGoals     *int
	GoalDifference *int
	TotalXG        *float64
	XGDifference   *float64

	Sources []string
	Extra   map[string]any
}

// HasDate reports whether the match date is known.
func (c Canonical) HasDate() bool {
	return !c.Date.IsZero()
}

// HasScore reports whether both final scores are known.
func (c Canonical) HasScore() bool {
	return c.HomeScore != nil && c.AwayScore != nil
}

// HasXG reports whether both expected-goals values are known.
func (c Canonical) HasXG() bool {
	return c.HomeXG != nil && c.AwayXG != nil
}

// Map renders the record with the shared field vocabulary. Absent values are
// omitted.
func (c Canonical) Map() map[string]any {
	out := make(map[string]any, 20+len(c.Extra))
	for k, v := range c.Extra {
		out[k] = v
	}

	putString(out, FieldMatchKey, c.MatchKey)
	putString(out, FieldMatchID, c.MatchID)
	if c.HasDate() {
		out[FieldDate] = c.Date.Format(DateLayout)
	}
	putString(out, FieldHomeTeam, c.HomeTeam)
	putString(out, FieldAwayTeam, c.AwayTeam)
	putString(out, FieldCompetition, c.Competition)
	putString(out, FieldSeason, c.Season)
	putString(out, FieldResult, c.Result)

	putInt(out, FieldHomeScore, c.HomeScore)
	putInt(out, FieldAwayScore, c.AwayScore)
	putInt(out, FieldTotalGoals, c.TotalGoals)
	putInt(out, FieldGoalDifference, c.GoalDifference)

	putFloat(out, FieldHomeXG, c.HomeXG)
	putFloat(out, FieldAwayXG, c.AwayXG)
	putFloat(out, FieldTotalXG, c.TotalXG)
	putFloat(out, FieldXGDifference, c.XGDifference)
	putFloat(out, FieldHomeOdds, c.HomeOdds)
	putFloat(out, FieldDrawOdds, c.DrawOdds)
	putFloat(out, FieldAwayOdds, c.AwayOdds)

	if len(c.Sources) > 0 {
		out[FieldSources] = append([]string(nil), c.Sources...)
	}
	return out
}

// SortByKey orders records by match key, in place.
func SortByKey(items []Canonical) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].MatchKey < items[j].MatchKey })
}

func putString(out map[string]any, key, value string) {
	if value != "" {
		out[key] = value
	}
}

func putInt(out map[string]any, key string, value *int) {
	if value != nil {
		out[key] = *value
	}
}

func putFloat(out map[string]any, key string, value *float64) {
	if value != nil {
		out[key] = *value
	}
}
