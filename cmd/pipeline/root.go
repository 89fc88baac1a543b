package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-data-pipeline/internal/app"
	"github.com/riskibarqy/football-data-pipeline/internal/config"
	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/logging"
	"github.com/riskibarqy/football-data-pipeline/internal/usecase"
)

// runtime builds the app lazily on first use.
type runtime struct {
	cfg    config.Config
	logger *logging.Logger

	once sync.Once
	app  *app.App
	err  error
}

func newRuntime(cfg config.Config, logger *logging.Logger) *runtime {
	return &runtime{cfg: cfg, logger: logger}
}

func (r *runtime) App(ctx context.Context) (*app.App, error) {
	r.once.Do(func() {
		r.app, r.err = app.New(ctx, r.cfg, r.logger)
	})
	return r.app, r.err
}

func (r *runtime) Close() error {
	if r.app == nil {
		return nil
	}
	return r.app.Close()
}

func newRootCommand(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:     "pipeline",
		Short:   "Football match reconciliation and feature pipeline",
		Version: version,
		Long: `pipeline collects match records from football-data.org and Understat,
reconciles them into one canonical record per match and derives
leakage-free rolling team features for model training.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCollectCommand(rt),
		newMergeCommand(rt),
		newFeaturesCommand(rt),
		newDatasetCommand(rt),
		newMigrateCommand(rt),
	)
	return root
}

func parseDay(flag, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(match.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --%s %q, expected YYYY-MM-DD", usecase.ErrInvalidInput, flag, raw)
	}
	return day, nil
}

func writeJSONLines[T any](w io.Writer, items []T, render func(T) any) error {
	for _, item := range items {
		line, err := sonic.Marshal(render(item))
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

func formatWindows(windows []int) string {
	parts := make([]string, 0, len(windows))
	for _, w := range windows {
		parts = append(parts, strconv.Itoa(w))
	}
	return strings.Join(parts, ",")
}
