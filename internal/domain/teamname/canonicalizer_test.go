package teamname

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestCanonicalizer_Normalize(t *testing.T) {
	t.Parallel()

	c := NewCanonicalizer(DefaultAliasTable())
	cases := []struct {
		in   string
		want string
	}{
		{in: "Man Utd", want: "Manchester United"},
		{in: "  manchester   UTD ", want: "Manchester United"},
		{in: "Manchester United", want: "Manchester United"},
		{in: "Manchester United FC", want: "Manchester United"},
		{in: "Spurs", want: "Tottenham Hotspur"},
		{in: "Atletico Madrid", want: "Atlético Madrid"},
		{in: "atlético", want: "Atlético Madrid"},
		{in: "Bayern Munchen", want: "Bayern Munich"},
		{in: "SSC Napoli", want: "Napoli"},
		{in: "PSG", want: "Paris Saint-Germain"},
		{in: "Wolverhampton Wanderes", want: "Wolverhampton Wanderers"},
		{in: "FC Barcelona", want: "Barcelona"},
		{in: "RC Celta", want: "Celta"},
		{in: "real madrid cf", want: "Real Madrid"},
		{in: "", want: ""},
		{in: "   ", want: ""},
	}

	for _, tc := range cases {
		if got := c.Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalizer_NormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	c := NewCanonicalizer(nil)
	inputs := []string{
		"Man Utd", "fc sc Hellas Verona", "Real Sociedad cf", "köln", "AS", "Inter",
		"Brighton Hove", "west ham utd", "Paris SG", "fk crvena zvezda", "ud almería",
		"ßc D", "ßc '",
	}
	for _, in := range inputs {
		once := c.Normalize(in)
		if twice := c.Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestCanonicalizer_StripsTokenExposedByTitleCase(t *testing.T) {
	t.Parallel()

	c := NewCanonicalizer(nil)
	if got := c.Normalize("ßc D"); got != "D" {
		t.Fatalf("expected club token stripped after title casing, got %q", got)
	}
}

func TestCanonicalizer_StripsNestedAffixes(t *testing.T) {
	t.Parallel()

	c := NewCanonicalizer(nil)
	if got := c.Normalize("SC FC Hellas Verona AS"); got != "Hellas Verona" {
		t.Fatalf("expected nested tokens stripped, got %q", got)
	}
	if got := c.Normalize("FC"); got != "Fc" {
		t.Fatalf("token-only name must survive, got %q", got)
	}
}

func TestCanonicalizer_WithSimilarity(t *testing.T) {
	t.Parallel()

	always := func(a, b string) float64 { return 1 }
	c := NewCanonicalizer(DefaultAliasTable(), WithSimilarity(always))
	if got := c.Normalize("Some Unknown Club"); got != "Manchester United" {
		t.Fatalf("expected first table entry on ties, got %q", got)
	}

	never := func(a, b string) float64 { return 0 }
	c = NewCanonicalizer(DefaultAliasTable(), WithSimilarity(never))
	if got := c.Normalize("Manchester Unitd"); got != "Manchester Unitd" {
		t.Fatalf("expected fallback without fuzzy matches, got %q", got)
	}
	if got := c.Normalize("Man Utd"); got != "Manchester United" {
		t.Fatalf("exact aliases must not depend on similarity, got %q", got)
	}
}

func TestCanonicalizer_FindBestMatch(t *testing.T) {
	t.Parallel()

	c := NewCanonicalizer(nil)
	candidates := []string{"Chelsea", "Man Utd", "Manchester City"}

	got, ok := c.FindBestMatch("Manchester United", candidates)
	if !ok || got != "Man Utd" {
		t.Fatalf("expected original candidate spelling, got %q ok=%v", got, ok)
	}

	if _, ok := c.FindBestMatch("Sampdoria", candidates); ok {
		t.Fatalf("expected no match below threshold")
	}
	if _, ok := c.FindBestMatch("", candidates); ok {
		t.Fatalf("expected no match for empty name")
	}
	if _, ok := c.FindBestMatch("Chelsea", nil); ok {
		t.Fatalf("expected no match without candidates")
	}

	got, ok = c.FindBestMatch("Chelsea", []string{"Chelsea FC", "chelsea"})
	if !ok || got != "Chelsea FC" {
		t.Fatalf("expected first candidate on tie, got %q", got)
	}
}

func TestCanonicalizer_ConcurrentUse(t *testing.T) {
	t.Parallel()

	c := NewCanonicalizer(nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := c.Normalize("Atletico"); got != "Atlético Madrid" {
					t.Errorf("unexpected %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestLevenshteinRatio(t *testing.T) {
	t.Parallel()

	if got := LevenshteinRatio("", ""); got != 1 {
		t.Fatalf("empty strings: %v", got)
	}
	if got := LevenshteinRatio("abcd", "abcd"); got != 1 {
		t.Fatalf("identical: %v", got)
	}
	if got := LevenshteinRatio("abcd", "abce"); got != 0.75 {
		t.Fatalf("one substitution over four: %v", got)
	}
	if got := LevenshteinRatio("münchen", "munchen"); got < 0.85 || got >= 1 {
		t.Fatalf("rune-aware ratio out of range: %v", got)
	}
}

func TestAliasTable_ExtendAndLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	doc := "Sporting CP:\n  - Sporting Lisbon\n  - Sporting\nJuventus:\n  - La Vecchia Signora\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write alias file: %v", err)
	}

	extra, err := LoadAliasFile(path)
	if err != nil {
		t.Fatalf("load alias file: %v", err)
	}

	base := DefaultAliasTable()
	table := base.Extend(extra)
	if got, ok := table.Lookup("sporting lisbon"); !ok || got != "Sporting CP" {
		t.Fatalf("expected new entry, got %q ok=%v", got, ok)
	}
	if got, ok := table.Lookup("la vecchia signora"); !ok || got != "Juventus" {
		t.Fatalf("expected alias appended to existing entry, got %q ok=%v", got, ok)
	}
	if _, ok := base.Lookup("sporting"); ok {
		t.Fatalf("Extend must not mutate the receiver")
	}

	entries := table.Entries()
	if last := entries[len(entries)-1]; last.Canonical != "Sporting CP" {
		t.Fatalf("expected new canonical names appended, got %q", last.Canonical)
	}
}

func TestLoadAliasFile_Errors(t *testing.T) {
	t.Parallel()

	if _, err := LoadAliasFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("- just\n- a list\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadAliasFile(path); err == nil {
		t.Fatalf("expected error for non-mapping document")
	}
}

func TestAliasTable_FirstEntryKeepsSharedSpelling(t *testing.T) {
	t.Parallel()

	table := NewAliasTable([]Entry{
		{Canonical: "Inter Milan", Aliases: []string{"Inter"}},
		{Canonical: "Inter Miami", Aliases: []string{"Inter"}},
	})
	if got, _ := table.Lookup("INTER"); got != "Inter Milan" {
		t.Fatalf("expected first entry to own alias, got %q", got)
	}
	if got, _ := table.Lookup("Inter Miami"); got != "Inter Miami" {
		t.Fatalf("canonical names are their own aliases, got %q", got)
	}
}
