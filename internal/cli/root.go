// Package cli implements the operator surface of the pipeline: scrape, load,
// a combined run, and schema migration. Per-item errors live in the run
// statistics; only fatal errors (bad configuration, unreachable store, a
// client that fails to start) produce a non-zero exit.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rkata-ai/tg-pipeline/internal/config"
)

type app struct {
	cfgPath string
	dryRun  bool
	verbose bool

	cfg *config.Config
	log *slog.Logger
}

// Execute runs the CLI with signal-driven cancellation. A signal aborts the
// current channel or file but batches already completed stay on disk.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "tg-pipeline",
		Short:         "Scrape public Telegram channels into a data lake and load them into Postgres",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(a.log)

			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to configuration file")
	root.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, "validate and log without contacting Telegram or the store")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newScrapeCmd(a))
	root.AddCommand(newLoadCmd(a))
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newMigrateCmd(a))

	return root
}

// validateDate checks the YYYY-MM-DD filter format up front so a typo is a
// fatal usage error rather than a silent empty scan.
func validateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return nil
}
