package main

import (
	"fmt"

	"news-pulse/internal/config"
	"news-pulse/internal/domain"

	"github.com/spf13/cobra"
)

func newBackfillCmd(cfg func() *config.Config) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Rescore every stored article of one day",
		Long: `Rescore the articles published on a UTC day with the current ensemble,
weights and policy, replacing earlier verdicts.

Examples:
  pulse backfill --date 2024-05-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(date)
			if err != nil {
				return err
			}
			pipeline, closeFn, err := loadPipelineFunc(cmd.Context(), cfg(), true)
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := pipeline.Backfill(cmd.Context(), day)
			if err != nil {
				return fmt.Errorf("backfill %s: %w", day.Format(domain.DayLayout), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rescored %d articles for %s\n", n, day.Format(domain.DayLayout))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to rescore as YYYY-MM-DD (default today, UTC)")
	return cmd
}
