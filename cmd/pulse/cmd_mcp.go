package main

import (
	"context"
	"time"

	"news-pulse/internal/config"
	"news-pulse/internal/mcpserver"
	"news-pulse/pkg/tracing"

	"github.com/spf13/cobra"
)

var runMCPStdioFunc = func(ctx context.Context, s *mcpserver.Server) error {
	return s.RunStdio(ctx)
}

func newMCPCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the sentiment tools over MCP on stdin/stdout",
		Long: `Expose analyze_sentiment, forecast and sentiment_series as MCP tools to a
single client speaking over stdio. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			pipeline, closeFn, err := loadPipelineFunc(cmd.Context(), c, true)
			if err != nil {
				return err
			}
			defer closeFn()

			s := mcpserver.New(pipeline, tracing.Version, time.Duration(c.MCPRequestTimeoutSecs)*time.Second)
			return runMCPStdioFunc(cmd.Context(), s)
		},
	}
}
