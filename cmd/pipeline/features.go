package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/features"
	"github.com/riskibarqy/football-data-pipeline/internal/usecase"
)

func newFeaturesCommand(rt *runtime) *cobra.Command {
	var (
		cutoffRaw string
		windows   []int
	)

	cmd := &cobra.Command{
		Use:     "features",
		Short:   "Print per-team rolling features as of a cutoff date (JSON lines)",
		Example: `  pipeline features --cutoff 2024-03-01 --windows 5,10`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cutoff, err := parseDay("cutoff", cutoffRaw)
			if err != nil {
				return err
			}
			if cutoff.IsZero() {
				return fmt.Errorf("%w: --cutoff is required", usecase.ErrInvalidInput)
			}

			a, err := rt.App(ctx)
			if err != nil {
				return err
			}
			rows, err := a.Features.TeamFeatures(ctx, cutoff, windows)
			if err != nil {
				return err
			}
			return writeJSONLines(cmd.OutOrStdout(), rows, func(r features.TeamRow) any { return r.Columns() })
		},
	}

	cmd.Flags().StringVar(&cutoffRaw, "cutoff", "", "only matches played before this day count (YYYY-MM-DD)")
	cmd.Flags().IntSliceVar(&windows, "windows", nil, "window sizes, defaults to FEATURE_WINDOWS")
	return cmd
}
