package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"news-pulse/internal/config"
	"news-pulse/internal/sentiment"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(cfg func() *config.Config) *cobra.Command {
	var summary string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <headline>",
		Short: "Score a headline with the sentiment ensemble",
		Long: `Score one headline (and optional summary) with the configured ensemble.
Nothing is read from or written to storage.

Examples:
  pulse analyze "Bitcoin ETF approved by SEC"
  pulse analyze "Exchange hacked" --summary "Funds drained overnight" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, closeFn, err := loadPipelineFunc(cmd.Context(), cfg(), false)
			if err != nil {
				return err
			}
			defer closeFn()

			headline := strings.Join(args, " ")
			res := pipeline.Analyze(headline, summary)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprint(out, formatResult(headline, pipeline.Policy(), res))
			return nil
		},
	}
	cmd.Flags().StringVar(&summary, "summary", "", "Article summary scored together with the headline")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw result as JSON")
	return cmd
}

func formatResult(headline string, policy sentiment.Policy, res sentiment.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "headline:   %s\n", headline)
	fmt.Fprintf(&b, "policy:     %s\n", policy)
	fmt.Fprintf(&b, "sentiment:  %s (%d)\n", label(res.Sentiment), res.Sentiment)
	fmt.Fprintf(&b, "confidence: %.3f\n", res.Confidence)
	fmt.Fprintf(&b, "score:      %+.4f\n", res.Score)

	names := make([]string, 0, len(res.Detail))
	for name := range res.Detail {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %-13s %+.4f\n", name, res.Detail[name])
	}
	return b.String()
}

func label(s int) string {
	switch {
	case s > 0:
		return "positive"
	case s < 0:
		return "negative"
	default:
		return "neutral"
	}
}
