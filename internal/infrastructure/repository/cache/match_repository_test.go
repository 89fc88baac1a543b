package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
	matchmock "github.com/riskibarqy/football-data-pipeline/internal/mocks/domain/match"
)

func day(s string) time.Time {
	t, _ := time.Parse(match.DateLayout, s)
	return t
}

func TestMatchRepository_ListBeforeIsMemoized(t *testing.T) {
	ctx := context.Background()
	next := matchmock.NewRepository(t)
	items := []match.Canonical{{MatchKey: "2024-01-06_inter_vs_milan", Date: day("2024-01-06")}}
	next.On("ListBefore", mock.Anything, day("2024-02-01")).Return(items, nil).Once()

	repo := NewMatchRepository(next, time.Minute)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := repo.ListBefore(ctx, day("2024-02-01"))
			if err != nil || len(got) != 1 {
				t.Errorf("unexpected result: %v %v", got, err)
			}
		}()
	}
	wg.Wait()

	got, err := repo.ListBefore(ctx, day("2024-02-01"))
	require.NoError(t, err)
	got[0].MatchKey = "mutated"

	again, err := repo.ListBefore(ctx, day("2024-02-01"))
	require.NoError(t, err)
	require.Equal(t, "2024-01-06_inter_vs_milan", again[0].MatchKey)
}

func TestMatchRepository_UpsertInvalidates(t *testing.T) {
	ctx := context.Background()
	next := matchmock.NewRepository(t)
	from, to := day("2024-01-01"), day("2024-02-01")
	next.On("ListBetween", mock.Anything, from, to).Return([]match.Canonical{}, nil).Twice()
	next.On("UpsertMatches", mock.Anything, mock.Anything).Return(nil).Once()

	repo := NewMatchRepository(next, time.Minute)

	_, err := repo.ListBetween(ctx, from, to)
	require.NoError(t, err)
	_, err = repo.ListBetween(ctx, from, to)
	require.NoError(t, err)

	require.NoError(t, repo.UpsertMatches(ctx, []match.Canonical{{MatchKey: "k"}}))

	_, err = repo.ListBetween(ctx, from, to)
	require.NoError(t, err)
}

func TestMatchRepository_ExpiresAndSkipsErrors(t *testing.T) {
	ctx := context.Background()
	next := matchmock.NewRepository(t)
	cutoff := day("2024-02-01")
	boom := errors.New("db down")
	next.On("ListBefore", mock.Anything, cutoff).Return(nil, boom).Once()
	next.On("ListBefore", mock.Anything, cutoff).Return([]match.Canonical{}, nil).Twice()

	repo := NewMatchRepository(next, time.Minute)
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	_, err := repo.ListBefore(ctx, cutoff)
	require.ErrorIs(t, err, boom)

	_, err = repo.ListBefore(ctx, cutoff)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = repo.ListBefore(ctx, cutoff)
	require.NoError(t, err)
}
