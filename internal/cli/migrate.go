package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rkata-ai/tg-pipeline/internal/storage"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the raw schema and messages table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Database.Validate(); err != nil {
				return err
			}
			if a.dryRun {
				a.log.Info("dry run: migration plan validated")
				return nil
			}

			store, err := storage.NewPostgresStore(&a.cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open raw store: %w", err)
			}
			defer store.Close()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			a.log.Info("migration completed")
			return nil
		},
	}
}
