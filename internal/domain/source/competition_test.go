package source

import "testing"

func TestCatalog_Lookup(t *testing.T) {
	t.Parallel()

	c := NewCatalog(DefaultCompetitions())
	for _, name := range []string{"Premier League", "premier_league", "EPL", "2021", "  epl "} {
		got, ok := c.Lookup(name)
		if !ok || got.Name != "Premier League" {
			t.Fatalf("Lookup(%q)=%+v,%v", name, got, ok)
		}
	}

	laLiga, ok := c.Lookup("la-liga")
	if !ok {
		t.Fatalf("expected la liga")
	}
	if id, ok := laLiga.ProviderID(ProviderUnderstat); !ok || id != "La_liga" {
		t.Fatalf("unexpected understat id %q", id)
	}
	if id, _ := laLiga.ProviderID(ProviderFootballData); id != "2014" {
		t.Fatalf("unexpected football-data id %q", id)
	}
	if _, ok := laLiga.ProviderID("sofascore"); ok {
		t.Fatalf("expected missing provider id")
	}

	if _, ok := c.Lookup("Eredivisie"); ok {
		t.Fatalf("expected unknown competition")
	}
}

func TestCatalog_All(t *testing.T) {
	t.Parallel()

	all := NewCatalog(DefaultCompetitions()).All()
	if len(all) != 5 || all[0].Name != "Bundesliga" || all[4].Name != "Serie A" {
		t.Fatalf("unexpected order: %+v", all)
	}
}

func TestSeasonStartYear(t *testing.T) {
	t.Parallel()

	cases := map[string]string{"2023-24": "2023", "2023/2024": "2023", "2023": "2023", " 2022 ": "2022", "": ""}
	for in, want := range cases {
		if got := SeasonStartYear(in); got != want {
			t.Fatalf("SeasonStartYear(%q)=%q want %q", in, got, want)
		}
	}
}
