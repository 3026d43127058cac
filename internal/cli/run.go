package cli

import (
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var limit int
	var channels []string
	var date string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape and then load in one invocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.runScrape(cmd.Context(), limit, channels); err != nil {
				return err
			}
			return a.runLoad(cmd.Context(), date)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum messages per channel (overrides config)")
	cmd.Flags().StringSliceVar(&channels, "channels", nil, "channels to scrape (overrides config)")
	cmd.Flags().StringVar(&date, "date", "", "only load partitions for this date (YYYY-MM-DD)")

	return cmd
}
