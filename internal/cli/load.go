package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rkata-ai/tg-pipeline/internal/lake"
	"github.com/rkata-ai/tg-pipeline/internal/loader"
	"github.com/rkata-ai/tg-pipeline/internal/stats"
	"github.com/rkata-ai/tg-pipeline/internal/storage"
)

func newLoadCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load partition files from the data lake into the raw store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLoad(cmd.Context(), date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "only load partitions for this date (YYYY-MM-DD)")

	return cmd
}

func (a *app) runLoad(ctx context.Context, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	if err := a.cfg.Database.Validate(); err != nil {
		return err
	}

	if a.dryRun {
		a.log.Info("dry run: load plan validated",
			"raw_data_dir", a.cfg.Lake.RawDataDir,
			"date_filter", date,
		)
		return nil
	}

	store, err := storage.NewPostgresStore(&a.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open raw store: %w", err)
	}
	defer store.Close()

	st := stats.NewLoadStats()
	scanner := lake.NewScanner(a.cfg.Lake.RawDataDir)

	runErr := loader.New(store, scanner, st, a.log).Run(ctx, date)
	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("load run failed: %w", runErr)
	}

	st.Snapshot().LogTo(a.log)
	return nil
}
