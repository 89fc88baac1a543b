package teamname

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one canonical team name and the spellings providers use for it.
type Entry struct {
	Canonical string
	Aliases   []string
}

// AliasTable maps folded spellings to canonical names. It is immutable once
// built and safe for concurrent use.
type AliasTable struct {
	entries []Entry
	index   map[string]string
}

func defaultEntries() []Entry {
	return []Entry{
		{Canonical: "Manchester United", Aliases: []string{"Man United", "Manchester Utd", "Man Utd"}},
		{Canonical: "Manchester City", Aliases: []string{"Man City", "Manchester C"}},
		{Canonical: "Tottenham Hotspur", Aliases: []string{"Tottenham", "Spurs"}},
		{Canonical: "West Ham United", Aliases: []string{"West Ham", "West Ham Utd"}},
		{Canonical: "Newcastle United", Aliases: []string{"Newcastle", "Newcastle Utd"}},
		{Canonical: "Brighton & Hove Albion", Aliases: []string{"Brighton", "Brighton Hove"}},
		{Canonical: "Wolverhampton Wanderers", Aliases: []string{"Wolves", "Wolverhampton"}},
		{Canonical: "AC Milan", Aliases: []string{"Milan"}},
		{Canonical: "Inter Milan", Aliases: []string{"Inter"}},
		{Canonical: "AS Roma", Aliases: []string{"Roma"}},
		{Canonical: "SS Lazio", Aliases: []string{"Lazio"}},
		{Canonical: "Atlético Madrid", Aliases: []string{"Atletico Madrid", "Atletico"}},
		{Canonical: "Athletic Bilbao", Aliases: []string{"Athletic Club"}},
		{Canonical: "Paris Saint-Germain", Aliases: []string{"PSG", "Paris SG"}},
		{Canonical: "Bayern Munich", Aliases: []string{"Bayern München", "Bayern"}},
		{Canonical: "Borussia Dortmund", Aliases: []string{"Dortmund"}},
		{Canonical: "Juventus", Aliases: []string{"Juve"}},
		{Canonical: "Napoli", Aliases: []string{"SSC Napoli"}},
	}
}

// DefaultAliasTable returns the built-in table for the supported leagues.
func DefaultAliasTable() *AliasTable {
	return NewAliasTable(defaultEntries())
}

// NewAliasTable indexes entries in order. When two entries claim the same
// folded spelling the earlier entry keeps it.
func NewAliasTable(entries []Entry) *AliasTable {
	t := &AliasTable{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]string, len(entries)*4),
	}
	for _, e := range entries {
		canonical := collapseSpaces(e.Canonical)
		if canonical == "" {
			continue
		}
		aliases := make([]string, 0, len(e.Aliases))
		for _, alias := range e.Aliases {
			if alias = collapseSpaces(alias); alias != "" {
				aliases = append(aliases, alias)
			}
		}
		t.entries = append(t.entries, Entry{Canonical: canonical, Aliases: aliases})

		t.add(canonical, canonical)
		for _, alias := range aliases {
			t.add(alias, canonical)
		}
	}
	return t
}

func (t *AliasTable) add(spelling, canonical string) {
	key := foldKey(spelling)
	if key == "" {
		return
	}
	if _, taken := t.index[key]; !taken {
		t.index[key] = canonical
	}
}

// Lookup resolves a spelling case-, whitespace- and accent-insensitively.
func (t *AliasTable) Lookup(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	canonical, ok := t.index[foldKey(name)]
	return canonical, ok
}

// Entries returns a copy of the table in insertion order.
func (t *AliasTable) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{Canonical: e.Canonical, Aliases: append([]string(nil), e.Aliases...)}
	}
	return out
}

// Extend returns a new table with extra entries. Aliases for a canonical name
// already in the table are appended to it; new canonical names go last.
func (t *AliasTable) Extend(extra map[string][]string) *AliasTable {
	entries := t.Entries()
	pos := make(map[string]int, len(entries))
	for i, e := range entries {
		pos[foldKey(e.Canonical)] = i
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if i, ok := pos[foldKey(name)]; ok {
			entries[i].Aliases = append(entries[i].Aliases, extra[name]...)
			continue
		}
		pos[foldKey(name)] = len(entries)
		entries = append(entries, Entry{Canonical: name, Aliases: append([]string(nil), extra[name]...)})
	}
	return NewAliasTable(entries)
}

// LoadAliasFile reads a YAML document mapping canonical names to alias lists:
//
//	Sporting CP:
//	  - Sporting Lisbon
//	  - Sporting
func LoadAliasFile(path string) (map[string][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}

	out := map[string][]string{}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse alias file %s: %w", path, err)
	}
	for name := range out {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("parse alias file %s: empty canonical name", path)
		}
	}
	return out, nil
}
