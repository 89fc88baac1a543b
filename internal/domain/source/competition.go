package source

import (
	"sort"
	"strings"
)

// Provider ids used as keys of Competition.ProviderIDs.
const (
	ProviderFootballData = "football_data"
	ProviderUnderstat    = "understat"
)

type Competition struct {
	Name        string            `json:"name"`
	Country     string            `json:"country"`
	ProviderIDs map[string]string `json:"provider_ids"`
}

// ProviderID returns the competition id for provider.
func (c Competition) ProviderID(provider string) (string, bool) {
	id, ok := c.ProviderIDs[provider]
	return id, ok && id != ""
}

func DefaultCompetitions() []Competition {
	return []Competition{
		{Name: "Serie A", Country: "Italy", ProviderIDs: map[string]string{ProviderFootballData: "2019", ProviderUnderstat: "Serie_A"}},
		{Name: "Premier League", Country: "England", ProviderIDs: map[string]string{ProviderFootballData: "2021", ProviderUnderstat: "EPL"}},
		{Name: "La Liga", Country: "Spain", ProviderIDs: map[string]string{ProviderFootballData: "2014", ProviderUnderstat: "La_liga"}},
		{Name: "Bundesliga", Country: "Germany", ProviderIDs: map[string]string{ProviderFootballData: "2002", ProviderUnderstat: "Bundesliga"}},
		{Name: "Ligue 1", Country: "France", ProviderIDs: map[string]string{ProviderFootballData: "2015", ProviderUnderstat: "Ligue_1"}},
	}
}

// Catalog resolves competitions by name or by any provider id.
type Catalog struct {
	items []Competition
	index map[string]int
}

func NewCatalog(items []Competition) *Catalog {
	c := &Catalog{index: make(map[string]int, len(items)*3)}
	for _, item := range items {
		pos := len(c.items)
		c.items = append(c.items, item)
		c.put(item.Name, pos)
		for _, id := range item.ProviderIDs {
			c.put(id, pos)
		}
	}
	return c
}

func (c *Catalog) put(key string, pos int) {
	key = catalogKey(key)
	if key == "" {
		return
	}
	if _, taken := c.index[key]; !taken {
		c.index[key] = pos
	}
}

// Lookup matches "premier league", "Premier_League", "EPL" or "2021" alike.
func (c *Catalog) Lookup(name string) (Competition, bool) {
	pos, ok := c.index[catalogKey(name)]
	if !ok {
		return Competition{}, false
	}
	return c.items[pos], true
}

// All returns the catalog sorted by name.
func (c *Catalog) All() []Competition {
	out := append([]Competition(nil), c.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func catalogKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '_' || r == '-' }), " ")
}

// SeasonStartYear turns "2023-24", "2023/2024" or "2023" into "2023".
func SeasonStartYear(season string) string {
	season = strings.TrimSpace(season)
	if i := strings.IndexAny(season, "-/"); i > 0 {
		return season[:i]
	}
	return season
}
