package usecase

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{fmt.Errorf("%w: season is required", ErrInvalidInput), ExitUsage},
		{fmt.Errorf("collect: %w", fmt.Errorf("%w: competition=Eredivisie", ErrNotFound)), ExitNotFound},
		{fmt.Errorf("%w: every collector failed", ErrDependencyUnavailable), ExitUnavailable},
		{errors.New("disk full"), ExitFailure},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v)=%d want %d", tc.err, got, tc.want)
		}
	}
}
