package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/termfx/balancedwrap/db"
	"github.com/termfx/balancedwrap/internal/model"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}
	cmd.AddCommand(newCachePruneCmd(a))
	return cmd
}

func newCachePruneCmd(a *app) *cobra.Command {
	var (
		keep       int
		dsn        string
		configPath string
	)
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent runs and their stale results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := a.cacheDSN(configPath, dsn)
			if err != nil {
				return &exitStatus{code: exitError, err: err}
			}

			store, err := db.Open(resolved, a.debug)
			if err != nil {
				return &exitStatus{code: exitError, err: model.Wrap(model.ECCache, "cannot open cache", err)}
			}
			defer store.Close()

			stats, err := store.Prune(cmd.Context(), keep)
			if err != nil {
				return &exitStatus{code: exitError, err: model.Wrap(model.ECCache, "cannot prune cache", err)}
			}
			a.logger.Debug("cache pruned", "dsn", resolved, "keep", keep)
			fmt.Fprintf(a.stdout, "Pruned %d runs and %d cached results\n", stats.Runs, stats.Results)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 10, "Number of most recent runs to keep")
	cmd.Flags().StringVar(&dsn, "cache-dsn", "", "Cache database: a file path or a libsql:// URL")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default: discovered in the working directory)")
	return cmd
}
