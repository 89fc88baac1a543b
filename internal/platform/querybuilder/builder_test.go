package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("match_key", "home_team").
		From("matches").
		Where(Gte("match_date", "2024-01-01"), Lt("match_date", "2024-02-01"), IsNotNull("match_date")).
		OrderBy("match_date", "match_key").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT match_key, home_team FROM matches WHERE match_date >= $1 AND match_date < $2 AND match_date IS NOT NULL ORDER BY match_date, match_key"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "2024-01-01" || args[1] != "2024-02-01" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_Validation(t *testing.T) {
	if _, _, err := Select().From("matches").ToSQL(); err == nil {
		t.Fatalf("expected error without columns")
	}
	if _, _, err := Select("a").ToSQL(); err == nil {
		t.Fatalf("expected error without table")
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("matches").
		Columns("match_key", "home_team").
		Values("k1", "Arsenal").
		Values("k2", "Chelsea").
		Suffix("RETURNING match_key").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO matches (match_key, home_team) VALUES ($1, $2), ($3, $4) RETURNING match_key"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{"k1", "Arsenal", "k2", "Chelsea"}) {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertInto("matches").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected row width error")
	}
}

func TestOnConflictUpdate(t *testing.T) {
	got := OnConflictUpdate([]string{"match_key"}, []string{"home_score", "away_score"})
	want := "ON CONFLICT (match_key) DO UPDATE SET home_score = EXCLUDED.home_score, away_score = EXCLUDED.away_score"
	if got != want {
		t.Fatalf("unexpected clause:\nwant: %s\ngot:  %s", want, got)
	}
	if got := OnConflictUpdate([]string{"match_key"}, nil); got != "ON CONFLICT (match_key) DO NOTHING" {
		t.Fatalf("unexpected do-nothing clause: %s", got)
	}
	if got := OnConflictUpdate(nil, []string{"a"}); got != "" {
		t.Fatalf("expected empty clause without conflict target, got %s", got)
	}
}
