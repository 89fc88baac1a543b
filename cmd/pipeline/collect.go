package main

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-data-pipeline/internal/usecase"
)

func newCollectCommand(rt *runtime) *cobra.Command {
	var input usecase.CollectInput

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect one competition season from every provider, reconcile and store it",
		Example: `  pipeline collect --competition "Serie A" --season 2023
  pipeline collect --competition EPL --season 2023-24 --primary understat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := rt.App(ctx)
			if err != nil {
				return err
			}

			result, err := a.Ingestion.Collect(ctx, input)
			if err != nil {
				return fmt.Errorf("collect %s %s: %w", input.Competition, input.Season, err)
			}

			out, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().StringVar(&input.Competition, "competition", "", "competition name or provider id (e.g. \"Serie A\", EPL, 2019)")
	cmd.Flags().StringVar(&input.Season, "season", "", "season start year, 2023 or 2023-24")
	cmd.Flags().StringVar(&input.Primary, "primary", "", "source that wins field conflicts (defaults to MERGE_PRIMARY_SOURCE)")
	_ = cmd.MarkFlagRequired("competition")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}
