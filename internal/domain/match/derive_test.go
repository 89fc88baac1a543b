package match

import (
	"math"
	"reflect"
	"testing"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestDeriveFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		home, away *int
		wantResult string
		wantTotal  *int
		wantDiff   *int
	}{
		{name: "home win", home: intPtr(2), away: intPtr(1), wantResult: ResultHome, wantTotal: intPtr(3), wantDiff: intPtr(1)},
		{name: "draw", home: intPtr(1), away: intPtr(1), wantResult: ResultDraw, wantTotal: intPtr(2), wantDiff: intPtr(0)},
		{name: "away win", home: intPtr(0), away: intPtr(3), wantResult: ResultAway, wantTotal: intPtr(3), wantDiff: intPtr(-3)},
		{name: "missing away score", home: intPtr(2)},
	}

	for _, tc := range cases {
		c := Canonical{HomeScore: tc.home, AwayScore: tc.away, Result: "stale", TotalGoals: intPtr(99)}
		DeriveFields(&c)
		if c.Result != tc.wantResult {
			t.Fatalf("%s: result=%q want %q", tc.name, c.Result, tc.wantResult)
		}
		if !reflect.DeepEqual(c.TotalGoals, tc.wantTotal) || !reflect.DeepEqual(c.GoalDifference, tc.wantDiff) {
			t.Fatalf("%s: total=%v diff=%v", tc.name, c.TotalGoals, c.GoalDifference)
		}
	}
}

func TestDeriveFields_XG(t *testing.T) {
	t.Parallel()

	c := Canonical{HomeXG: floatPtr(1.75), AwayXG: floatPtr(0.5)}
	DeriveFields(&c)
	if c.TotalXG == nil || math.Abs(*c.TotalXG-2.25) > 1e-9 {
		t.Fatalf("unexpected total xg: %v", c.TotalXG)
	}
	if c.XGDifference == nil || math.Abs(*c.XGDifference-1.25) > 1e-9 {
		t.Fatalf("unexpected xg difference: %v", c.XGDifference)
	}

	c.AwayXG = nil
	DeriveFields(&c)
	if c.TotalXG != nil || c.XGDifference != nil {
		t.Fatalf("expected xg aggregates cleared")
	}
	DeriveFields(nil)
}

func TestFromRecord(t *testing.T) {
	t.Parallel()

	rec := RawRecord{
		FieldMatchID:     float64(4471),
		FieldDate:        "2023-08-11 19:00:00",
		FieldHomeTeam:    "Burnley",
		FieldAwayTeam:    "Manchester City",
		FieldHomeScore:   float64(0),
		FieldAwayScore:   "3",
		FieldHomeXG:      "0.3123",
		FieldAwayXG:      "n/a",
		FieldCompetition: "Premier League",
		FieldSeason:      2023,
		FieldResult:      "X",
		"status":         "FINISHED",
		FieldHomeOdds:    nil,
	}

	c := FromRecord("2023-08-11_Burnley_vs_Manchester City", rec, []string{"football_data", "understat"})

	if c.MatchID != "4471" || c.Season != "2023" || c.HomeTeam != "Burnley" {
		t.Fatalf("unexpected identity fields: %+v", c)
	}
	if !c.HasDate() || c.Date.Format(DateLayout) != "2023-08-11" {
		t.Fatalf("unexpected date: %v", c.Date)
	}
	if !c.HasScore() || *c.HomeScore != 0 || *c.AwayScore != 3 || c.Result != ResultAway {
		t.Fatalf("unexpected score fields: %+v", c)
	}
	if c.HomeXG == nil || *c.HomeXG != 0.3123 {
		t.Fatalf("unexpected home xg: %v", c.HomeXG)
	}
	if c.AwayXG != nil || c.TotalXG != nil {
		t.Fatalf("unconvertible away xg must only drop derived xg fields")
	}
	if c.Extra[FieldAwayXG] != "n/a" || c.Extra["status"] != "FINISHED" {
		t.Fatalf("unexpected extra: %+v", c.Extra)
	}
	if c.HomeOdds != nil {
		t.Fatalf("nil odds must stay absent")
	}

	m := c.Map()
	if m[FieldAwayXG] != "n/a" || m[FieldResult] != ResultAway || m[FieldTotalGoals] != 3 {
		t.Fatalf("unexpected mapping: %+v", m)
	}
	for _, absent := range []string{FieldHomeOdds, FieldTotalXG, FieldXGDifference} {
		if _, ok := m[absent]; ok {
			t.Fatalf("expected %s omitted from mapping", absent)
		}
	}
	if !reflect.DeepEqual(m[FieldSources], []string{"football_data", "understat"}) {
		t.Fatalf("unexpected sources: %v", m[FieldSources])
	}
}

func TestToInt(t *testing.T) {
	t.Parallel()

	for _, in := range []any{2, int64(2), float64(2), "2", " 2 ", intPtr(2)} {
		if got, ok := ToInt(in); !ok || got != 2 {
			t.Fatalf("ToInt(%v)=%d,%v", in, got, ok)
		}
	}
	for _, in := range []any{2.5, "two", nil, math.NaN(), true, (*int)(nil)} {
		if _, ok := ToInt(in); ok {
			t.Fatalf("ToInt(%v) should fail", in)
		}
	}
}

func TestIsMissing(t *testing.T) {
	t.Parallel()

	for _, in := range []any{nil, "", " ", math.NaN(), (*int)(nil)} {
		if !IsMissing(in) {
			t.Fatalf("expected %v missing", in)
		}
	}
	for _, in := range []any{0, "0", 0.0, false} {
		if IsMissing(in) {
			t.Fatalf("expected %v present", in)
		}
	}
}

func TestSortByKey(t *testing.T) {
	t.Parallel()

	items := []Canonical{{MatchKey: "b"}, {MatchKey: "unknown_x"}, {MatchKey: "a"}}
	SortByKey(items)
	if items[0].MatchKey != "a" || items[1].MatchKey != "b" || items[2].MatchKey != "unknown_x" {
		t.Fatalf("unexpected order: %+v", items)
	}
}
