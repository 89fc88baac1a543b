package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/resilience"
)

// MatchRepository memoizes date-range reads of the next repository. Any
// upsert drops every cached range.
type MatchRepository struct {
	next match.Repository
	ttl  time.Duration
	now  func() time.Time

	mu         sync.RWMutex
	entries    map[string]entry
	generation uint64
	flight     resilience.Group[[]match.Canonical]
}

type entry struct {
	items     []match.Canonical
	expiresAt time.Time
}

var _ match.Repository = (*MatchRepository)(nil)

func NewMatchRepository(next match.Repository, ttl time.Duration) *MatchRepository {
	return &MatchRepository{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (r *MatchRepository) UpsertMatches(ctx context.Context, items []match.Canonical) error {
	err := r.next.UpsertMatches(ctx, items)

	r.mu.Lock()
	r.entries = make(map[string]entry)
	r.generation++
	r.mu.Unlock()

	return err
}

func (r *MatchRepository) ListBefore(ctx context.Context, cutoff time.Time) ([]match.Canonical, error) {
	key := "match:before:" + dayKey(cutoff)
	return r.getOrLoad(key, func() ([]match.Canonical, error) {
		return r.next.ListBefore(ctx, cutoff)
	})
}

func (r *MatchRepository) ListBetween(ctx context.Context, from, to time.Time) ([]match.Canonical, error) {
	key := "match:between:" + dayKey(from) + ":" + dayKey(to)
	return r.getOrLoad(key, func() ([]match.Canonical, error) {
		return r.next.ListBetween(ctx, from, to)
	})
}

func (r *MatchRepository) getOrLoad(key string, loader func() ([]match.Canonical, error)) ([]match.Canonical, error) {
	if items, ok := r.get(key); ok {
		return items, nil
	}

	r.mu.RLock()
	generation := r.generation
	r.mu.RUnlock()

	items, err, _ := r.flight.Do(key+"@"+strconv.FormatUint(generation, 10), func() ([]match.Canonical, error) {
		if cached, ok := r.get(key); ok {
			return cached, nil
		}
		loaded, err := loader()
		if err != nil {
			return nil, err
		}
		r.set(key, loaded, generation)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]match.Canonical(nil), items...), nil
}

func (r *MatchRepository) get(key string) ([]match.Canonical, bool) {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if r.ttl > 0 && !e.expiresAt.After(r.now()) {
		r.mu.Lock()
		delete(r.entries, key)
		r.mu.Unlock()
		return nil, false
	}
	return append([]match.Canonical(nil), e.items...), true
}

func (r *MatchRepository) set(key string, items []match.Canonical, generation uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// An upsert landed while loading; the result may be stale.
	if generation != r.generation {
		return
	}
	e := entry{items: append([]match.Canonical(nil), items...)}
	if r.ttl > 0 {
		e.expiresAt = r.now().Add(r.ttl)
	}
	r.entries[key] = e
}

func dayKey(t time.Time) string {
	if t.IsZero() {
		return "none"
	}
	return match.Day(t).Format(match.DateLayout)
}
