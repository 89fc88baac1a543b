package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
)

func canonical(key string, date time.Time, homeScore int) match.Canonical {
	hs, as := homeScore, 0
	c := match.Canonical{
		MatchKey:  key,
		Date:      date,
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		HomeScore: &hs,
		AwayScore: &as,
		Sources:   []string{"football_data"},
	}
	match.DeriveFields(&c)
	return c
}

func TestMatchRepository_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository(nil)
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	items := []match.Canonical{canonical("2024-03-09_Arsenal_vs_Chelsea", day, 2)}
	for i := 0; i < 2; i++ {
		if err := repo.UpsertMatches(ctx, items); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if got := len(repo.All()); got != 1 {
		t.Fatalf("expected one stored match after repeated upsert, got %d", got)
	}

	if err := repo.UpsertMatches(ctx, []match.Canonical{canonical("2024-03-09_Arsenal_vs_Chelsea", day, 3)}); err != nil {
		t.Fatalf("upsert replacement: %v", err)
	}
	stored := repo.All()[0]
	if *stored.HomeScore != 3 || *stored.TotalGoals != 3 {
		t.Fatalf("expected replacement to win, got home=%d total=%d", *stored.HomeScore, *stored.TotalGoals)
	}
}

func TestMatchRepository_ListBeforeAndBetween(t *testing.T) {
	ctx := context.Background()
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	repo := NewMatchRepository([]match.Canonical{
		canonical("c", d3, 1),
		canonical("a", d1, 1),
		canonical("b", d2, 1),
		canonical("unknown_Arsenal_vs_Chelsea", time.Time{}, 1),
	})

	before, err := repo.ListBefore(ctx, d2.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("list before: %v", err)
	}
	if len(before) != 1 || before[0].MatchKey != "a" {
		t.Fatalf("expected only matches before cutoff day, got %+v", before)
	}

	between, err := repo.ListBetween(ctx, d2, d3.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("list between: %v", err)
	}
	if len(between) != 2 || between[0].MatchKey != "b" || between[1].MatchKey != "c" {
		t.Fatalf("unexpected range result: %+v", between)
	}

	if got := len(repo.All()); got != 4 {
		t.Fatalf("expected undated record kept in storage, got %d", got)
	}
}

func TestMatchRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	repo := NewMatchRepository([]match.Canonical{canonical("k", day, 1)})

	out, _ := repo.ListBefore(ctx, day.AddDate(0, 0, 1))
	out[0].Sources[0] = "mutated"

	again, _ := repo.ListBefore(ctx, day.AddDate(0, 0, 1))
	if again[0].Sources[0] != "football_data" {
		t.Fatalf("repository state leaked through returned slice")
	}
}
