package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rkata-ai/tg-pipeline/internal/lake"
	"github.com/rkata-ai/tg-pipeline/internal/scraper"
	"github.com/rkata-ai/tg-pipeline/internal/stats"
	"github.com/rkata-ai/tg-pipeline/internal/telegram"
)

func newScrapeCmd(a *app) *cobra.Command {
	var limit int
	var channels []string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape configured channels into partitioned JSON files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScrape(cmd.Context(), limit, channels)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum messages per channel (overrides config)")
	cmd.Flags().StringSliceVar(&channels, "channels", nil, "channels to scrape (overrides config)")

	return cmd
}

func (a *app) runScrape(ctx context.Context, limit int, channels []string) error {
	if err := a.cfg.Telegram.Validate(); err != nil {
		return err
	}

	scrapeCfg := a.cfg.Scraper
	if limit > 0 {
		scrapeCfg.Limit = limit
	}
	if len(channels) > 0 {
		scrapeCfg.Channels = channels
	}
	if len(scrapeCfg.Channels) == 0 {
		return fmt.Errorf("no channels configured")
	}

	if a.dryRun {
		a.log.Info("dry run: scrape plan validated",
			"channels", scrapeCfg.Channels,
			"limit", scrapeCfg.Limit,
			"raw_data_dir", a.cfg.Lake.RawDataDir,
		)
		return nil
	}

	client, err := telegram.NewClient(a.cfg.Telegram, a.cfg.Lake.ImagesDir, a.log)
	if err != nil {
		return err
	}

	st := stats.NewScrapeStats()
	writer := lake.NewWriter(a.cfg.Lake.RawDataDir)

	started := false
	runErr := client.Run(ctx, func(ctx context.Context) error {
		started = true
		return scraper.New(client, writer, st, scrapeCfg, a.log).Run(ctx)
	})

	// A client that never got as far as scraping is a fatal startup error;
	// statistics would be meaningless there.
	if !started && runErr != nil {
		return fmt.Errorf("scrape run failed: %w", runErr)
	}

	st.Snapshot().LogTo(a.log)

	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("scrape run failed: %w", runErr)
	}
	return nil
}
