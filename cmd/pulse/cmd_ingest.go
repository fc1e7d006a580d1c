package main

import (
	"fmt"

	"news-pulse/internal/config"

	"github.com/spf13/cobra"
)

func newIngestCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run one collect, dedupe and score cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, closeFn, err := loadPipelineFunc(cmd.Context(), cfg(), true)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := pipeline.RunIngestCycle(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fetched %d, duplicate %d, stored %d, scored %d, published %d\n",
				res.ItemsFetched, res.ItemsDuplicate, res.ItemsStored, res.ItemsScored, res.EventsPublished)
			for _, w := range res.Errors {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	}
}
