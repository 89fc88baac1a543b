package match

import (
	"context"
	"time"
)

// Repository persists canonical records keyed by MatchKey.
type Repository interface {
	// UpsertMatches inserts or replaces records by key. Re-running with the
	// same input leaves storage unchanged.
	UpsertMatches(ctx context.Context, items []Canonical) error
	// ListBefore returns dated matches played strictly before cutoff's day,
	// ordered by date then key.
	ListBefore(ctx context.Context, cutoff time.Time) ([]Canonical, error)
	// ListBetween returns dated matches with from <= day < to.
	ListBetween(ctx context.Context, from, to time.Time) ([]Canonical, error)
}
