package reconcile

import (
	"maps"
	"strings"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
)

// Source identifiers known to the default ranking.
const (
	SourceFootballData = "football_data"
	SourceUnderstat    = "understat"
	SourceSofascore    = "sofascore"
)

// UnrankedPriority is the rank of sources missing from the priority table.
// Unranked sources lose every conflict; among themselves input order decides.
const UnrankedPriority = 999

// Policy decides which source wins a field conflict. Lower rank wins.
type Policy struct {
	Priorities     map[string]int
	StatsSource    string
	IdentityFields []string
}

func DefaultPolicy() Policy {
	return Policy{
		Priorities: map[string]int{
			SourceFootballData: 1,
			SourceUnderstat:    2,
			SourceSofascore:    3,
		},
		StatsSource:    SourceUnderstat,
		IdentityFields: []string{match.FieldMatchID, match.FieldDate, match.FieldHomeTeam, match.FieldAwayTeam},
	}
}

// WithStatsSource returns a copy that prefers source for expected-goals
// fields. An empty source keeps the current one.
func (p Policy) WithStatsSource(source string) Policy {
	if source = strings.TrimSpace(source); source != "" {
		p.StatsSource = source
	}
	return p
}

// WithPriority returns a copy with source ranked at rank.
func (p Policy) WithPriority(source string, rank int) Policy {
	priorities := make(map[string]int, len(p.Priorities)+1)
	maps.Copy(priorities, p.Priorities)
	priorities[source] = rank
	p.Priorities = priorities
	return p
}

// Rank returns 0 for the primary source, the table rank for known sources and
// UnrankedPriority otherwise.
func (p Policy) Rank(source, primary string) int {
	if primary != "" && source == primary {
		return 0
	}
	if rank, ok := p.Priorities[source]; ok {
		return rank
	}
	return UnrankedPriority
}

func (p Policy) isIdentity(field string) bool {
	for _, f := range p.IdentityFields {
		if f == field {
			return true
		}
	}
	return false
}
