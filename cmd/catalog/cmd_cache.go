package main

import (
	"fmt"

	"talent-catalog/internal/infrastructure/cache"
	"talent-catalog/internal/usecase"

	"github.com/spf13/cobra"
)

func newCacheCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear cached search pages and reports",
	}

	var patterns []string
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached search pages and stat reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.bootstrap()
			if err != nil {
				return err
			}
			rc := cache.NewRedis(cfg.Redis, log)
			defer rc.Close()
			if err := rc.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("redis: %w", err)
			}

			if len(patterns) == 0 {
				patterns = usecase.CachePatterns()
			}
			n, err := rc.Purge(cmd.Context(), patterns...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d keys\n", n)
			return nil
		},
	}
	purge.Flags().StringSliceVar(&patterns, "pattern", nil, "Key patterns to delete (default: every catalogue key)")

	cmd.AddCommand(purge)
	return cmd
}
