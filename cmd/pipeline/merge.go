package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
	"github.com/riskibarqy/football-data-pipeline/internal/domain/reconcile"
	"github.com/riskibarqy/football-data-pipeline/internal/usecase"
)

func newMergeCommand(rt *runtime) *cobra.Command {
	var (
		inputs  []string
		primary string
		store   bool
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Reconcile raw JSON dumps offline and print canonical matches as JSON lines",
		Example: `  pipeline merge --input football_data=fd.json --input understat=us.json
  pipeline merge --input understat=us.json --primary understat --store`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			batches := make([]reconcile.SourceBatch, 0, len(inputs))
			for _, spec := range inputs {
				batch, err := readBatch(spec)
				if err != nil {
					return err
				}
				batches = append(batches, batch)
			}

			a, err := rt.App(ctx)
			if err != nil {
				return err
			}
			merged, report, err := a.Ingestion.MergeBatches(ctx, batches, primary)
			if err != nil {
				return err
			}
			if store {
				if err := a.Ingestion.Store(ctx, merged); err != nil {
					return err
				}
			}

			rt.logger.InfoContext(ctx, "merge finished",
				"groups", report.Groups,
				"multi_source_groups", report.MultiSourceGroups,
				"field_conflicts", report.FieldConflicts,
				"stored", store,
			)
			return writeJSONLines(cmd.OutOrStdout(), merged, func(c match.Canonical) any { return c.Map() })
		},
	}

	cmd.Flags().StringArrayVar(&inputs, "input", nil, "source=path.json, repeatable; the file holds a JSON array of raw records")
	cmd.Flags().StringVar(&primary, "primary", "", "source that wins field conflicts (defaults to MERGE_PRIMARY_SOURCE)")
	cmd.Flags().BoolVar(&store, "store", false, "upsert the merged matches into storage")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func readBatch(spec string) (reconcile.SourceBatch, error) {
	name, path, ok := strings.Cut(spec, "=")
	name, path = strings.TrimSpace(name), strings.TrimSpace(path)
	if !ok || name == "" || path == "" {
		return reconcile.SourceBatch{}, fmt.Errorf("%w: --input %q, expected source=path.json", usecase.ErrInvalidInput, spec)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return reconcile.SourceBatch{}, fmt.Errorf("read %s input: %w", name, err)
	}
	var records []match.RawRecord
	if err := sonic.Unmarshal(raw, &records); err != nil {
		return reconcile.SourceBatch{}, fmt.Errorf("decode %s input %s: %w", name, path, err)
	}
	return reconcile.SourceBatch{Source: name, Records: records}, nil
}
