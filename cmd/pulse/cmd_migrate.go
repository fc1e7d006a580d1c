package main

import (
	"fmt"

	"news-pulse/internal/config"

	"github.com/spf13/cobra"
)

func newMigrateCmd(cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := openMigratorFunc(cmd.Context(), cfg())
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := m.Up(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations\n", n)
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			m, closeFn, err := openMigratorFunc(cmd.Context(), cfg())
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := m.Down(cmd.Context(), steps)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migrations\n", n)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := openMigratorFunc(cmd.Context(), cfg())
			if err != nil {
				return err
			}
			defer closeFn()

			v, name, err := m.Version(cmd.Context())
			if err != nil {
				return err
			}
			if v == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (%s)\n", v, name)
			return nil
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}
