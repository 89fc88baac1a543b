package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/features"
)

func newDatasetCommand(rt *runtime) *cobra.Command {
	var (
		fromRaw string
		toRaw   string
		outPath string
		windows []int
	)

	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Export labelled training rows for matches in [from, to) as CSV",
		Example: `  pipeline dataset --from 2023-08-01 --to 2024-06-01 --out train.csv
  pipeline dataset --to 2024-06-01 --windows 3,5,10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			from, err := parseDay("from", fromRaw)
			if err != nil {
				return err
			}
			to, err := parseDay("to", toRaw)
			if err != nil {
				return err
			}

			a, err := rt.App(ctx)
			if err != nil {
				return err
			}
			if len(windows) == 0 {
				windows = a.Features.Windows()
			}
			rows, err := a.Features.TrainingRows(ctx, from, to, windows)
			if err != nil {
				return err
			}
			windows = features.NormalizeWindows(windows)

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}
			if err := writeDataset(out, rows, windows); err != nil {
				return err
			}

			rt.logger.InfoContext(ctx, "dataset exported", "rows", len(rows), "windows", formatWindows(windows), "out", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromRaw, "from", "", "first match day included (YYYY-MM-DD), empty for all history")
	cmd.Flags().StringVar(&toRaw, "to", "", "first match day excluded (YYYY-MM-DD)")
	cmd.Flags().StringVar(&outPath, "out", "", "CSV file path, stdout when empty")
	cmd.Flags().IntSliceVar(&windows, "windows", nil, "window sizes, defaults to FEATURE_WINDOWS")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func writeDataset(w io.Writer, rows []features.MatchRow, windows []int) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(features.MatchRowColumnNames(windows)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.Record(windows)); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.MatchKey, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
