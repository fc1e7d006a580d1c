package main

import (
	"encoding/json"
	"fmt"
	"time"

	"news-pulse/internal/config"
	"news-pulse/internal/dashboard"

	"github.com/spf13/cobra"
)

func newForecastCmd(cfg func() *config.Config) *cobra.Command {
	var at string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print the current BTC direction forecast",
		Long: `Run the forecast rules over the stored sentiment series and print a report.

Examples:
  pulse forecast
  pulse forecast --at 2024-05-01T15:00:00Z --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := nowFunc()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC3339: %w", err)
				}
				now = t
			}

			pipeline, closeFn, err := loadPipelineFunc(cmd.Context(), cfg(), true)
			if err != nil {
				return err
			}
			defer closeFn()

			f, err := pipeline.ForecastAt(cmd.Context(), now)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(f)
			}
			fmt.Fprintln(out, dashboard.RenderReport(f))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Evaluate as of this RFC3339 time instead of now")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the forecast as JSON")
	return cmd
}
