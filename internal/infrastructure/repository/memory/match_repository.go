package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
)

var _ match.Repository = (*MatchRepository)(nil)

type MatchRepository struct {
	mu    sync.RWMutex
	byKey map[string]match.Canonical
}

func NewMatchRepository(seed []match.Canonical) *MatchRepository {
	r := &MatchRepository{byKey: make(map[string]match.Canonical, len(seed))}
	for _, item := range seed {
		r.byKey[item.MatchKey] = cloneCanonical(item)
	}
	return r
}

func (r *MatchRepository) UpsertMatches(_ context.Context, items []match.Canonical) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.MatchKey == "" {
			continue
		}
		r.byKey[item.MatchKey] = cloneCanonical(item)
	}
	return nil
}

func (r *MatchRepository) ListBefore(_ context.Context, cutoff time.Time) ([]match.Canonical, error) {
	day := match.Day(cutoff)
	return r.list(func(d time.Time) bool { return d.Before(day) }), nil
}

func (r *MatchRepository) ListBetween(_ context.Context, from, to time.Time) ([]match.Canonical, error) {
	from, to = match.Day(from), match.Day(to)
	return r.list(func(d time.Time) bool { return !d.Before(from) && d.Before(to) }), nil
}

// All returns every stored record, including undated ones, sorted by key.
func (r *MatchRepository) All() []match.Canonical {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Canonical, 0, len(r.byKey))
	for _, item := range r.byKey {
		out = append(out, cloneCanonical(item))
	}
	match.SortByKey(out)
	return out
}

func (r *MatchRepository) list(keep func(time.Time) bool) []match.Canonical {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Canonical, 0)
	for _, item := range r.byKey {
		if !item.HasDate() || !keep(item.Date) {
			continue
		}
		out = append(out, cloneCanonical(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].MatchKey < out[j].MatchKey
	})
	return out
}

func cloneCanonical(c match.Canonical) match.Canonical {
	c.Sources = append([]string(nil), c.Sources...)
	if c.Extra != nil {
		extra := make(map[string]any, len(c.Extra))
		for k, v := range c.Extra {
			extra[k] = v
		}
		c.Extra = extra
	}
	return c
}
